package domain

// ActionResult is the universal contract every action handler and trigger
// validator returns. A handler reports its own failures here; it never lets a
// raw fault escape.
type ActionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ResultOK(data any) ActionResult {
	return ActionResult{Success: true, Data: data}
}

func ResultError(message string) ActionResult {
	return ActionResult{Success: false, Error: message}
}
