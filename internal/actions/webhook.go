package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

const webhookMaxResponseBytes = 1 << 20

// WebhookHandler performs an outbound HTTP call. 2xx/3xx responses succeed;
// anything else, including a timeout, is a declared failure.
type WebhookHandler struct {
	defaultTimeout time.Duration
}

func NewWebhookHandler(defaultTimeout time.Duration) *WebhookHandler {
	return &WebhookHandler{defaultTimeout: defaultTimeout}
}

func (h *WebhookHandler) Kind() string { return "webhook" }

func (h *WebhookHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	url := stringValue(config, "url")
	if url == "" {
		return domain.ResultError("webhook action requires a url")
	}

	method := strings.ToUpper(stringValue(config, "method"))
	if method == "" {
		method = http.MethodPost
	}

	var body io.Reader
	contentType := ""
	if payload, ok := config["payload"]; ok {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return domain.ResultError("webhook payload is not serializable: " + err.Error())
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	} else if raw := stringValue(config, "body"); raw != "" {
		body = strings.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return domain.ResultError("invalid webhook request: " + err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if headers, ok := config["headers"].(map[string]any); ok {
		for name, value := range headers {
			if s, ok := value.(string); ok {
				req.Header.Set(name, s)
			}
		}
	}

	timeout := timeoutFor(config, h.defaultTimeout)
	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.ResultError(fmt.Sprintf("request to %s timed out after %dms", url, timeout.Milliseconds()))
		}
		return domain.ResultError("webhook request failed: " + err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, webhookMaxResponseBytes))
	if err != nil {
		return domain.ResultError("failed to read webhook response: " + err.Error())
	}

	if resp.StatusCode >= 400 {
		return domain.ResultError(fmt.Sprintf("webhook request returned status %d", resp.StatusCode))
	}

	data := map[string]any{"status": resp.StatusCode}
	var parsed any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err == nil {
			data["body"] = parsed
		} else {
			data["body"] = string(raw)
		}
	}
	return domain.ResultOK(data)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
