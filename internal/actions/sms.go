package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowmatic/flowmatic/internal/config"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// SMSHandler posts {to, message} to the configured SMS gateway.
type SMSHandler struct {
	settings *config.HandlerSettings
}

func NewSMSHandler(settings *config.HandlerSettings) *SMSHandler {
	return &SMSHandler{settings: settings}
}

func (h *SMSHandler) Kind() string { return "sms" }

func (h *SMSHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	to := stringValue(config, "to")
	if to == "" {
		return domain.ResultError("sms action requires a to number")
	}
	message := stringValue(config, "message")
	if message == "" {
		return domain.ResultError("sms action requires a message")
	}

	gatewayURL := stringValue(config, "gateway_url")
	if gatewayURL == "" {
		gatewayURL = h.settings.SMS.GatewayURL
	}
	if gatewayURL == "" {
		return domain.ResultError("sms gateway is not configured")
	}

	payload, _ := json.Marshal(map[string]string{"to": to, "message": message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return domain.ResultError("invalid sms request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if h.settings.SMS.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.settings.SMS.APIKey)
	}

	timeout := timeoutFor(config, h.settings.DefaultTimeout)
	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.ResultError(fmt.Sprintf("sms to %s timed out after %dms", to, timeout.Milliseconds()))
		}
		return domain.ResultError("sms gateway request failed: " + err.Error())
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, webhookMaxResponseBytes))

	if resp.StatusCode >= 400 {
		return domain.ResultError(fmt.Sprintf("sms gateway returned status %d", resp.StatusCode))
	}
	return domain.ResultOK(map[string]any{"to": to, "sentAt": time.Now().UTC().Format(time.RFC3339)})
}
