package actions

import (
	"context"

	"github.com/itchyny/gojq"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// TransformHandler applies a jq expression to the run's accumulated variables
// (or an explicit input value) and records the output as its step result. It
// is a registry extension beyond the built-in external-service actions.
type TransformHandler struct{}

func NewTransformHandler() *TransformHandler { return &TransformHandler{} }

func (h *TransformHandler) Kind() string { return "transform" }

func (h *TransformHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	expression := stringValue(config, "expression")
	if expression == "" {
		return domain.ResultError("transform action requires an expression")
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return domain.ResultError("invalid jq expression: " + err.Error())
	}
	code, err := gojq.Compile(query,
		// block $ENV and env access from workflow configs
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return domain.ResultError("invalid jq expression: " + err.Error())
	}

	input := normalizeForJQ(execCtx.Variables)
	if explicit, ok := config["input"]; ok {
		input = normalizeForJQ(explicit)
	}

	iter := code.RunWithContext(ctx, input)
	var results []any
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if evalErr, isErr := val.(error); isErr {
			return domain.ResultError("jq evaluation failed: " + evalErr.Error())
		}
		results = append(results, val)
	}

	switch len(results) {
	case 0:
		return domain.ResultOK(map[string]any{"result": nil})
	case 1:
		return domain.ResultOK(map[string]any{"result": results[0]})
	default:
		return domain.ResultOK(map[string]any{"result": results})
	}
}

// normalizeForJQ converts Go native numbers to the float64 form gojq expects.
func normalizeForJQ(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeForJQ(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeForJQ(item)
		}
		return out
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}
