package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic/flowmatic/internal/config"
)

func emailSettings() *config.HandlerSettings {
	settings := &config.HandlerSettings{DefaultTimeout: 5 * time.Second}
	settings.SMTP.Host = "mail.example.com"
	settings.SMTP.Port = 587
	settings.SMTP.From = "noreply@example.com"
	return settings
}

func TestEmailHandler_Sends(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	h := NewEmailHandler(emailSettings())
	h.send = func(addr string, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	result := h.Execute(context.Background(), map[string]any{
		"to":      "a@b.com",
		"subject": "Order 42",
		"body":    "shipped",
	}, testExecCtx())

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Order 42")
	assert.Contains(t, string(gotMsg), "shipped")
}

func TestEmailHandler_MultipleRecipients(t *testing.T) {
	var gotTo []string
	h := NewEmailHandler(emailSettings())
	h.send = func(addr string, from string, to []string, msg []byte) error {
		gotTo = to
		return nil
	}

	result := h.Execute(context.Background(), map[string]any{
		"to":   []any{"a@b.com", "c@d.com"},
		"body": "hello",
	}, testExecCtx())

	require.True(t, result.Success)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, gotTo)
}

func TestEmailHandler_TransportFailure(t *testing.T) {
	h := NewEmailHandler(emailSettings())
	h.send = func(addr string, from string, to []string, msg []byte) error {
		return errors.New("relay rejected sender")
	}

	result := h.Execute(context.Background(), map[string]any{"to": "a@b.com"}, testExecCtx())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "relay rejected sender")
}

func TestEmailHandler_Timeout(t *testing.T) {
	h := NewEmailHandler(emailSettings())
	h.send = func(addr string, from string, to []string, msg []byte) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	}

	result := h.Execute(context.Background(), map[string]any{
		"to":         "a@b.com",
		"timeout_ms": float64(10),
	}, testExecCtx())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out after 10ms")
}

func TestEmailHandler_ConfigValidation(t *testing.T) {
	h := NewEmailHandler(emailSettings())

	result := h.Execute(context.Background(), map[string]any{}, testExecCtx())
	assert.Equal(t, "email action requires a to address", result.Error)

	unconfigured := &config.HandlerSettings{DefaultTimeout: time.Second}
	h = NewEmailHandler(unconfigured)
	result = h.Execute(context.Background(), map[string]any{"to": "a@b.com"}, testExecCtx())
	assert.Equal(t, "email action has no from address configured", result.Error)

	unconfigured.SMTP.From = "noreply@example.com"
	result = h.Execute(context.Background(), map[string]any{"to": "a@b.com"}, testExecCtx())
	assert.Equal(t, "smtp host is not configured", result.Error)
}
