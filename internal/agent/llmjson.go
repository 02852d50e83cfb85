package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON parses a structured payload out of a raw model response.
// Models frequently wrap JSON in markdown fences or surround it with
// prose, so the outermost JSON value is located before unmarshaling.
func decodeJSON(response string, v any) error {
	s := strings.TrimSpace(response)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return fmt.Errorf("no JSON value in response")
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return fmt.Errorf("unterminated JSON value in response")
	}

	return json.Unmarshal([]byte(s[start:end+1]), v)
}
