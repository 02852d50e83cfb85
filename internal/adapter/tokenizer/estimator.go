package tokenizer

import "unicode/utf8"

// Estimator approximates token counts as characters divided by four.
// It needs no model vocabulary and works for any provider.
type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

func (Estimator) CountTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}
