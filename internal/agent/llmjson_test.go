package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		OK bool `json:"ok"`
	}

	tests := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{"plain object", `{"ok": true}`, false},
		{"fenced", "```json\n{\"ok\": true}\n```", false},
		{"fenced without language", "```\n{\"ok\": true}\n```", false},
		{"surrounded by prose", `Sure! Here you go: {"ok": true} Hope that helps.`, false},
		{"no json", "I cannot answer that.", true},
		{"unterminated", `{"ok": true`, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := decodeJSON(tt.response, &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.OK)
		})
	}
}
