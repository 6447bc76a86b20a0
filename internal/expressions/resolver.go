package expressions

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern matches a {{path}} placeholder. The path is any run of
// characters excluding '}', so tokens never nest or overlap.
var tokenPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolve substitutes {{path}} placeholders inside value against context.
// Strings are scanned for tokens, sequences are resolved element-wise,
// mappings value-wise, scalars pass through. A path that cannot be resolved
// leaves its token literally intact: a visible {{...}} in output is the
// diagnostic that the path was wrong, not an error condition.
func Resolve(value any, context map[string]any) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, context)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Resolve(item, context)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Resolve(item, context)
		}
		return out
	default:
		return value
	}
}

// ResolveConfig resolves an action config map. Kept as a separate entry point
// so callers get the concrete map type back without asserting.
func ResolveConfig(config map[string]any, context map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	return Resolve(config, context).(map[string]any)
}

func resolveString(s string, context map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		expr := strings.TrimSpace(token[2 : len(token)-2])
		if name, args, ok := parseTransformCall(expr); ok {
			return applyTransform(name, args, context, token)
		}
		val, ok := lookupPath(context, expr)
		if !ok {
			return token
		}
		return stringify(val)
	})
}

// lookupPath walks a dot-separated path into nested maps and slices. A
// segment of digits indexes a sequence; anything else keys a mapping. A
// missing segment, an out-of-range index, a nil value or a non-indexable
// intermediate all fail the lookup; lookups never panic.
func lookupPath(root any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := root
	for _, segment := range strings.Split(path, ".") {
		if current == nil {
			return nil, false
		}
		switch v := current.(type) {
		case map[string]any:
			val, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = val
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// stringify renders a resolved value into the surrounding string. Maps and
// slices are embedded as JSON.
func stringify(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
