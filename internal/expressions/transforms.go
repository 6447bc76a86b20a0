package expressions

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Transform functions are callable inside placeholders as {{fn(path, args...)}}.
// Every transform is total: whatever the input, it produces the best coercible
// string rather than failing the substitution.

var transformCallPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)

var transformNames = map[string]bool{
	"formatDate": true,
	"upper":      true,
	"lower":      true,
	"default":    true,
	"join":       true,
	"first":      true,
	"last":       true,
	"count":      true,
}

// parseTransformCall recognizes fn(arg, ...) for a known transform. Unknown
// names fall through to plain path lookup so a literal like {{weird(x)}}
// behaves like any other unresolvable path.
func parseTransformCall(expr string) (string, []string, bool) {
	m := transformCallPattern.FindStringSubmatch(expr)
	if m == nil || !transformNames[m[1]] {
		return "", nil, false
	}
	return m[1], splitArgs(m[2]), true
}

// splitArgs splits on commas outside single or double quotes and trims
// whitespace and surrounding quotes from each argument.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ',':
			args = append(args, unquote(strings.TrimSpace(current.String())))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 || len(args) > 0 {
		args = append(args, unquote(strings.TrimSpace(current.String())))
	}
	return args
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func applyTransform(name string, args []string, context map[string]any, token string) string {
	if len(args) == 0 {
		return token
	}
	val, found := lookupPath(context, args[0])

	switch name {
	case "default":
		if found && stringify(val) != "" {
			return stringify(val)
		}
		if len(args) > 1 {
			return args[1]
		}
		return ""
	case "formatDate":
		if !found {
			return token
		}
		return formatDate(val, optArg(args, 1))
	case "upper":
		if !found {
			return token
		}
		return strings.ToUpper(stringify(val))
	case "lower":
		if !found {
			return token
		}
		return strings.ToLower(stringify(val))
	case "join":
		if !found {
			return token
		}
		return joinValue(val, optArgDefault(args, 1, ","))
	case "first":
		if !found {
			return token
		}
		return edgeElement(val, false)
	case "last":
		if !found {
			return token
		}
		return edgeElement(val, true)
	case "count":
		if !found {
			return token
		}
		return countValue(val)
	}
	return token
}

func optArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func optArgDefault(args []string, i int, def string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return def
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatDate coerces the value into a time and renders it with the given Go
// layout (RFC3339 when omitted). Strings that parse as none of the known
// layouts come back stringified unchanged.
func formatDate(val any, layout string) string {
	if layout == "" {
		layout = time.RFC3339
	}
	switch v := val.(type) {
	case string:
		for _, l := range dateLayouts {
			if t, err := time.Parse(l, v); err == nil {
				return t.Format(layout)
			}
		}
		return v
	case float64:
		return time.Unix(int64(v), 0).UTC().Format(layout)
	case int64:
		return time.Unix(v, 0).UTC().Format(layout)
	case time.Time:
		return v.Format(layout)
	default:
		return stringify(val)
	}
}

func joinValue(val any, sep string) string {
	seq, ok := val.([]any)
	if !ok {
		return stringify(val)
	}
	parts := make([]string, len(seq))
	for i, item := range seq {
		parts[i] = stringify(item)
	}
	return strings.Join(parts, sep)
}

func edgeElement(val any, last bool) string {
	seq, ok := val.([]any)
	if !ok {
		return stringify(val)
	}
	if len(seq) == 0 {
		return ""
	}
	if last {
		return stringify(seq[len(seq)-1])
	}
	return stringify(seq[0])
}

func countValue(val any) string {
	switch v := val.(type) {
	case []any:
		return strconv.Itoa(len(v))
	case map[string]any:
		return strconv.Itoa(len(v))
	case string:
		return strconv.Itoa(len(v))
	default:
		return "1"
	}
}
