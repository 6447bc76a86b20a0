package actions

import (
	"strconv"
	"time"
)

// Accessors for loosely typed action configs. JSON-decoded numbers arrive as
// float64; hand-built test configs may use int.

func stringValue(config map[string]any, key string) string {
	if v, ok := config[key].(string); ok {
		return v
	}
	return ""
}

func numberValue(config map[string]any, key string) (float64, bool) {
	switch v := config[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func stringListValue(config map[string]any, key string) []string {
	switch v := config[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// timeoutFor reads the per-action timeout_ms override, falling back to the
// configured default. Every external call a handler makes is bounded by this.
func timeoutFor(config map[string]any, fallback time.Duration) time.Duration {
	if ms, ok := numberValue(config, "timeout_ms"); ok && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
