package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/pipeline"
)

// checkCommand creates the check command, which validates input without
// sampling the model.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		file     string
		text     string
		alphabet bool
	)

	cmd := &cobra.Command{
		Use:   "check [line...]",
		Short: "Check that text can be written by the model",
		Long: `Check that text can be written by the model.

Every line must have at most 75 characters, all from the model's alphabet.
The model has no uppercase Q, X or Z and knows little punctuation; use
--alphabet to list what it can write.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if alphabet {
				printAlphabet()
				return nil
			}
			opts := pipeline.Options{Lines: args, Text: text}
			if file != "" {
				t, err := readText(file)
				if err != nil {
					return err
				}
				opts.Lines, opts.Text = nil, t
			}
			return runCheck(opts)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "i", "", "read text from a file (- for stdin)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to check; newlines separate lines")
	cmd.Flags().BoolVar(&alphabet, "alphabet", false, "print the characters the model can write")

	return cmd
}

func runCheck(opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	err := synth.Validate(opts.Requests(), opts.SynthOptions())
	if err == nil {
		printSuccess("%d lines can be written", len(opts.Lines))
		for i, line := range opts.Lines {
			if strings.TrimSpace(line) == "" {
				printWarning("line %d is blank and will be skipped", i)
			}
		}
		return nil
	}

	if i, ok := errors.LineOf(err); ok && i < len(opts.Lines) {
		printError("%s", errors.UserMessage(err))
		printDetail("%d: %s", i, StyleLine.Render(opts.Lines[i]))
		if bad := disallowed(opts.Lines[i]); bad != "" {
			printDetail("not in alphabet: %s", StyleWarning.Render(bad))
		}
	}
	return err
}

// disallowed returns the distinct characters of line the model cannot write.
func disallowed(line string) string {
	var b strings.Builder
	seen := map[rune]bool{}
	for _, r := range line {
		if !model.Allowed(r) && !seen[r] {
			seen[r] = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

func printAlphabet() {
	printKeyValue("Alphabet", strings.TrimPrefix(model.Alphabet, "\x00"))
	printKeyValue("Max length", fmt.Sprintf("%d", errors.MaxLineLength))
}
