package errors

import (
	"strings"
	"testing"
)

func asciiLetters(r rune) bool {
	return r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid word", "Hello World", false},
		{"empty line", "", false},
		{"exactly max length", strings.Repeat("a", MaxLineLength), false},
		{"too long", strings.Repeat("a", MaxLineLength+1), true},
		{"invalid character", "Hello!", true},
		{"invalid unicode", "café", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLine(0, tt.input, asciiLetters)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLine(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLine) {
				t.Errorf("ValidateLine(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidLine)
			}
		})
	}
}

func TestValidateLinesTooLong(t *testing.T) {
	lines := []string{"ok", strings.Repeat("x", 76)}
	err := ValidateLines(lines, asciiLetters)
	if err == nil {
		t.Fatal("76-character line should fail")
	}

	if line, ok := LineOf(err); !ok || line != 1 {
		t.Errorf("LineOf() = %d, %v, want 1, true", line, ok)
	}
	msg := UserMessage(err)
	if !strings.Contains(msg, "line 1") || !strings.Contains(msg, "(76)") {
		t.Errorf("message %q should name the line index and length", msg)
	}
}

func TestValidateLinesInvalidCharacter(t *testing.T) {
	err := ValidateLines([]string{"fine", "also fine", "bad#char"}, asciiLetters)
	if err == nil {
		t.Fatal("invalid character should fail")
	}

	if line, ok := LineOf(err); !ok || line != 2 {
		t.Errorf("LineOf() = %d, %v, want 2, true", line, ok)
	}
	msg := UserMessage(err)
	if !strings.Contains(msg, "'#'") || !strings.Contains(msg, "line 2") {
		t.Errorf("message %q should name the character and line index", msg)
	}
}

func TestValidateLinesCountsRunes(t *testing.T) {
	// 75 two-byte runes are 150 bytes but only 75 characters.
	line := strings.Repeat("é", MaxLineLength)
	err := ValidateLine(0, line, func(rune) bool { return true })
	if err != nil {
		t.Errorf("75-character line should pass, got %v", err)
	}
}

func TestValidateBias(t *testing.T) {
	tests := []struct {
		bias    float64
		wantErr bool
	}{
		{0, false},
		{0.75, false},
		{1, false},
		{-0.1, true},
		{1.01, true},
	}

	for _, tt := range tests {
		err := ValidateBias(0, tt.bias)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBias(%v) error = %v, wantErr %v", tt.bias, err, tt.wantErr)
		}
	}
}

func TestValidateStrokeWidth(t *testing.T) {
	if err := ValidateStrokeWidth(0, 2); err != nil {
		t.Errorf("positive width should pass: %v", err)
	}
	if err := ValidateStrokeWidth(0, 0); err == nil {
		t.Error("zero width should fail")
	}
	if err := ValidateStrokeWidth(0, -1); err == nil {
		t.Error("negative width should fail")
	}
}

func TestValidateStyle(t *testing.T) {
	if err := ValidateStyle(0, 9); err != nil {
		t.Errorf("style 9 should pass: %v", err)
	}
	if err := ValidateStyle(0, -1); err == nil {
		t.Error("negative style should fail")
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		wantErr bool
	}{
		{"named", "black", false},
		{"hex", "#1a2b3c", false},
		{"rgb", "rgb(0, 0, 255)", false},
		{"empty", "", true},
		{"quote injection", `red" onload="x`, true},
		{"markup", "<script>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(0, tt.color)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCanvas(t *testing.T) {
	tests := []struct {
		name              string
		width, lineHeight int
		wantErr           bool
	}{
		{"defaults", 1000, 60, false},
		{"zero width", 0, 60, true},
		{"negative line height", 1000, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvas(tt.width, tt.lineHeight)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCanvas(%d, %d) error = %v, wantErr %v", tt.width, tt.lineHeight, err, tt.wantErr)
			}
		})
	}
}
