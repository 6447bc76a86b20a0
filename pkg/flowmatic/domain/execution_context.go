package domain

import "fmt"

// ExecutionContext is the accumulating state of one in-flight run. It is
// created fresh per run, owned by that run alone, and discarded at run end.
// Variables and StepResults only grow; no step overwrites another's entry.
type ExecutionContext struct {
	WorkflowID  int64
	UserID      int64
	TriggerData any
	Variables   map[string]any
	StepResults map[string]any
}

func NewExecutionContext(workflowID int64, userID int64, triggerData any) *ExecutionContext {
	return &ExecutionContext{
		WorkflowID:  workflowID,
		UserID:      userID,
		TriggerData: triggerData,
		Variables:   map[string]any{"trigger": triggerData},
		StepResults: map[string]any{},
	}
}

// RecordTriggerResult stores a validated trigger's payload under
// trigger_<type>.
func (c *ExecutionContext) RecordTriggerResult(triggerType string, data any) {
	c.StepResults["trigger_"+triggerType] = data
}

// RecordActionResult stores a successful action's payload under action_<i>
// and exposes it to later steps as the action_<i>_result variable.
func (c *ExecutionContext) RecordActionResult(index int, data any) {
	key := fmt.Sprintf("action_%d", index)
	c.StepResults[key] = data
	c.Variables[key+"_result"] = data
}
