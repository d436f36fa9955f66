package client

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DescribeHTTPFailure turns a rejected response into a short message. JSON
// bodies contribute their detail or message field; anything else is used as
// plain text.
func DescribeHTTPFailure(status int, rawBody string) string {
	hint := strings.TrimSpace(rawBody)

	var parsed any
	if err := json.Unmarshal([]byte(rawBody), &parsed); err == nil {
		switch v := parsed.(type) {
		case string:
			hint = v
		case map[string]any:
			if detail := v["detail"]; truthy(detail) {
				hint = stringifyHint(detail)
			} else if message := v["message"]; truthy(message) {
				hint = stringifyHint(message)
			}
		}
	}

	if hint == "" {
		return fmt.Sprintf("voice agent responded %d", status)
	}
	return fmt.Sprintf("voice agent responded %d: %s", status, hint)
}

// truthy reports whether a decoded JSON value carries a usable hint. Empty
// strings, zero, false and null do not.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case bool:
		return v
	default:
		return true
	}
}

func stringifyHint(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}
