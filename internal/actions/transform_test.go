package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformHandler_OverVariables(t *testing.T) {
	h := NewTransformHandler()
	execCtx := testExecCtx()
	execCtx.Variables["action_0_result"] = map[string]any{"items": []any{1, 2, 3}}

	result := h.Execute(context.Background(), map[string]any{
		"expression": ".action_0_result.items | length",
	}, execCtx)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 3, result.Data.(map[string]any)["result"])
}

func TestTransformHandler_ExplicitInput(t *testing.T) {
	h := NewTransformHandler()

	result := h.Execute(context.Background(), map[string]any{
		"expression": ".name | ascii_upcase",
		"input":      map[string]any{"name": "ada"},
	}, testExecCtx())

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "ADA", result.Data.(map[string]any)["result"])
}

func TestTransformHandler_MultipleOutputs(t *testing.T) {
	h := NewTransformHandler()

	result := h.Execute(context.Background(), map[string]any{
		"expression": ".tags[]",
		"input":      map[string]any{"tags": []any{"x", "y"}},
	}, testExecCtx())

	require.True(t, result.Success, result.Error)
	assert.Equal(t, []any{"x", "y"}, result.Data.(map[string]any)["result"])
}

func TestTransformHandler_Errors(t *testing.T) {
	h := NewTransformHandler()

	result := h.Execute(context.Background(), map[string]any{}, testExecCtx())
	assert.False(t, result.Success)
	assert.Equal(t, "transform action requires an expression", result.Error)

	result = h.Execute(context.Background(), map[string]any{"expression": ".foo["}, testExecCtx())
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid jq expression")

	result = h.Execute(context.Background(), map[string]any{
		"expression": ".a + 1",
		"input":      map[string]any{"a": "text"},
	}, testExecCtx())
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "jq evaluation failed")
}
