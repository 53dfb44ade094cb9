package model

// Alphabet lists every character the handwriting model was trained to write.
// Note the gaps: there is no uppercase Q, X or Z, and most punctuation is
// missing.
const Alphabet = "\x00 !\"#'(),-.0123456789:;?ABCDEFGHIJKLMNOPRSTUVWYabcdefghijklmnopqrstuvwxyz"

var allowed = func() map[rune]bool {
	m := make(map[rune]bool, len(Alphabet))
	for _, r := range Alphabet {
		m[r] = true
	}
	return m
}()

// Allowed reports whether the model can write r.
func Allowed(r rune) bool { return allowed[r] }
