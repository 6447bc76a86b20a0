package engine

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// validateTrigger checks one trigger descriptor against the input that
// started the run. webhook and manual triggers pass the raw trigger data
// through unchanged. email and schedule triggers are recognized types whose
// condition check is not implemented; they validate unconditionally.
// Anything else fails the run before any action executes.
func validateTrigger(t domain.Trigger, triggerData any, clock core.Clock) domain.ActionResult {
	switch t.Type {
	case domain.TriggerTypeWebhook, domain.TriggerTypeManual, domain.TriggerTypeEmail:
		return domain.ResultOK(triggerData)
	case domain.TriggerTypeSchedule:
		return validateScheduleTrigger(t, triggerData, clock)
	default:
		return domain.ResultError((&TriggerValidationError{Type: t.Type}).Error())
	}
}

// validateScheduleTrigger never gates the run. When the config carries a
// parseable cron expression the result is annotated with the next activation
// time; an unparseable or absent expression just passes the data through.
func validateScheduleTrigger(t domain.Trigger, triggerData any, clock core.Clock) domain.ActionResult {
	expr, _ := t.Config["cron"].(string)
	if expr == "" {
		return domain.ResultOK(triggerData)
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return domain.ResultOK(triggerData)
	}
	return domain.ResultOK(map[string]any{
		"triggerData": triggerData,
		"cron":        expr,
		"nextRun":     schedule.Next(clock.Now()).UTC().Format(time.RFC3339),
	})
}
