package models

import "time"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Display hints for conversation turns.
const (
	HintUser      = "user"
	HintAssistant = "assistant"
	HintError     = "error"
)

// ConversationTurn is one message in a session's chat with the data assistant.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Hint      string    `json:"hint"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the body of a question to the data assistant.
type ChatRequest struct {
	Branch  string `json:"branch" validate:"required"`
	Week    string `json:"week"`
	Message string `json:"message" validate:"required,max=2000"`
}

// ViewModeRequest switches the session's view. An empty mode toggles it.
type ViewModeRequest struct {
	Mode ViewMode `json:"mode" validate:"omitempty,oneof=sales_report purchase_schedule"`
}
