package settings

import (
	"strings"
)

// Normalize converts raw store values into a full snapshot. Unknown keys are
// dropped, missing or unparseable values take the catalogue default.
func (c *Catalogue) Normalize(raw map[string]any) map[string]bool {
	out := c.Defaults()
	for name := range out {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if b, ok := ParseBool(v); ok {
			out[name] = b
		}
	}
	return out
}

// ParseBool interprets the value shapes stores and config files produce.
func ParseBool(v any) (bool, bool) {
	switch typed := v.(type) {
	case bool:
		return typed, true
	case string:
		return parseBoolString(typed)
	case []byte:
		return parseBoolString(string(typed))
	case int:
		return typed != 0, true
	case int64:
		return typed != 0, true
	case float64:
		return typed != 0, true
	default:
		return false, false
	}
}

func parseBoolString(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
