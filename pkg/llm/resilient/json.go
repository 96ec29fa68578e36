package resilient

import (
	"encoding/json"
	"errors"
	"strings"
)

// DecodeJSON decodes the first JSON object in raw into v, tolerating markdown
// code fences and chatter around the object.
func DecodeJSON(raw string, v interface{}) error {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return errors.New("no json object in response")
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}
