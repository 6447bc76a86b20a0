package actions

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/flowmatic/flowmatic/internal/config"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// SendMailFunc is the transport seam for EmailHandler; tests inject their own.
type SendMailFunc func(addr string, from string, to []string, msg []byte) error

// EmailHandler sends mail through the configured SMTP relay. net/smtp has no
// deadline support, so the send runs in a goroutine raced against a timer; a
// relay that never answers costs one leaked goroutine, not a hung run.
type EmailHandler struct {
	settings *config.HandlerSettings
	send     SendMailFunc
}

func NewEmailHandler(settings *config.HandlerSettings) *EmailHandler {
	h := &EmailHandler{settings: settings}
	h.send = func(addr string, from string, to []string, msg []byte) error {
		var auth smtp.Auth
		if settings.SMTP.Username != "" {
			auth = smtp.PlainAuth("", settings.SMTP.Username, settings.SMTP.Password, settings.SMTP.Host)
		}
		return smtp.SendMail(addr, auth, from, to, msg)
	}
	return h
}

func (h *EmailHandler) Kind() string { return "email" }

func (h *EmailHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	to := stringListValue(config, "to")
	if len(to) == 0 {
		return domain.ResultError("email action requires a to address")
	}
	subject := stringValue(config, "subject")
	body := stringValue(config, "body")
	from := stringValue(config, "from")
	if from == "" {
		from = h.settings.SMTP.From
	}
	if from == "" {
		return domain.ResultError("email action has no from address configured")
	}
	if h.settings.SMTP.Host == "" {
		return domain.ResultError("smtp host is not configured")
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", h.settings.SMTP.Host, h.settings.SMTP.Port)
	timeout := timeoutFor(config, h.settings.DefaultTimeout)

	done := make(chan error, 1)
	go func() {
		done <- h.send(addr, from, to, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return domain.ResultError("failed to send email: " + err.Error())
		}
	case <-time.After(timeout):
		return domain.ResultError(fmt.Sprintf("email to %s timed out after %dms", strings.Join(to, ", "), timeout.Milliseconds()))
	case <-ctx.Done():
		return domain.ResultError("email send interrupted: " + ctx.Err().Error())
	}

	return domain.ResultOK(map[string]any{"to": strings.Join(to, ", "), "subject": subject})
}
