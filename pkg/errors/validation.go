package errors

import (
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the longest line, in characters, the model can write.
const MaxLineLength = 75

// ValidateLines checks every line against the length limit and the allowed
// character set. It reports the first offending line; no line is partially
// accepted.
func ValidateLines(lines []string, allowed func(rune) bool) error {
	for i, line := range lines {
		if err := ValidateLine(i, line, allowed); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLine checks a single line. i is the line index used in the error.
func ValidateLine(i int, line string, allowed func(rune) bool) error {
	if n := utf8.RuneCountInString(line); n > MaxLineLength {
		return NewLine(ErrCodeInvalidLine, i, "line %d exceeds %d characters (%d)", i, MaxLineLength, n)
	}
	for _, r := range line {
		if !allowed(r) {
			return NewLine(ErrCodeInvalidLine, i, "invalid character %q in line %d", r, i)
		}
	}
	return nil
}

// ValidateBias checks that a model bias lies in [0, 1].
func ValidateBias(i int, bias float64) error {
	if bias < 0 || bias > 1 {
		return NewLine(ErrCodeInvalidInput, i, "bias %v for line %d must be between 0 and 1", bias, i)
	}
	return nil
}

// ValidateStyle checks that a style index is not negative.
func ValidateStyle(i, style int) error {
	if style < 0 {
		return NewLine(ErrCodeInvalidInput, i, "style %d for line %d must not be negative", style, i)
	}
	return nil
}

// ValidateStrokeWidth checks that a stroke width is positive.
func ValidateStrokeWidth(i int, width float64) error {
	if width <= 0 {
		return NewLine(ErrCodeInvalidInput, i, "stroke width %v for line %d must be positive", width, i)
	}
	return nil
}

// ValidateColor rejects empty colors and characters that would break out of
// an SVG attribute value.
func ValidateColor(i int, color string) error {
	if color == "" {
		return NewLine(ErrCodeInvalidInput, i, "color for line %d cannot be empty", i)
	}
	if strings.ContainsAny(color, "\"'<>&") {
		return NewLine(ErrCodeInvalidInput, i, "color %q for line %d contains invalid characters", color, i)
	}
	return nil
}

// ValidateCanvas checks the canvas width and line height.
func ValidateCanvas(width, lineHeight int) error {
	if width <= 0 {
		return New(ErrCodeInvalidInput, "canvas width must be positive (got %d)", width)
	}
	if lineHeight <= 0 {
		return New(ErrCodeInvalidInput, "line height must be positive (got %d)", lineHeight)
	}
	return nil
}
