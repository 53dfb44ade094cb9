package synth

import (
	"strings"

	"github.com/matzehuels/penstroke/pkg/errors"
)

// SplitText splits a block of text into lines, trimming surrounding spaces
// and dropping blank lines.
func SplitText(text string) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no text provided")
	}
	return lines, nil
}
