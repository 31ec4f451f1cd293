package models

// FieldErrors maps a form field name to its ordered validation messages
type FieldErrors map[string][]string

// ActionState is returned to a form so it can re-render with inline errors
type ActionState struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ActionResult types
const (
	ActionResultSuccess = "Success"
	ActionResultError   = "Error"
)

// ActionResult is the structured reply of actions that do not navigate
type ActionResult struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
