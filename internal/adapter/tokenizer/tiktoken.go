package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tiktoken counts tokens with a real BPE vocabulary. Used during
// ingestion so chunk sizes match what embedding models actually see.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding, e.g. "cl100k_base".
func NewTiktoken(encodingName string) (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %q: %w", encodingName, err)
	}
	return &Tiktoken{encoding: enc}, nil
}

func (t *Tiktoken) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
