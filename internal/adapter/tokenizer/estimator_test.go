package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatorCountTokens(t *testing.T) {
	e := NewEstimator()

	assert.Equal(t, 0, e.CountTokens(""))
	assert.Equal(t, 1, e.CountTokens("ab"), "short text rounds up to one token")
	assert.Equal(t, 10, e.CountTokens(strings.Repeat("x", 40)))
	// Runes count, not bytes.
	assert.Equal(t, 1, e.CountTokens("日本語"))
}
