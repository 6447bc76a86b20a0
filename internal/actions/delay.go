package actions

import (
	"context"
	"time"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// DelayHandler suspends its own run for a configured duration. It has no side
// effect beyond elapsed time and never affects other runs.
type DelayHandler struct {
	clock core.Clock
}

func NewDelayHandler(clock core.Clock) *DelayHandler {
	return &DelayHandler{clock: clock}
}

func (h *DelayHandler) Kind() string { return "delay" }

func (h *DelayHandler) Execute(ctx context.Context, config map[string]any, execCtx *domain.ExecutionContext) domain.ActionResult {
	duration, ok := delayDuration(config)
	if !ok {
		return domain.ResultError("delay action requires a positive duration_ms or duration")
	}

	select {
	case <-h.clock.After(duration):
		return domain.ResultOK(map[string]any{"delayedMs": duration.Milliseconds()})
	case <-ctx.Done():
		return domain.ResultError("delay interrupted: " + ctx.Err().Error())
	}
}

func delayDuration(config map[string]any) (time.Duration, bool) {
	if ms, ok := numberValue(config, "duration_ms"); ok && ms > 0 {
		return time.Duration(ms) * time.Millisecond, true
	}
	if raw := stringValue(config, "duration"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d, true
		}
	}
	return 0, false
}
