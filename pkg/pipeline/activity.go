package pipeline

import "time"

// Activity is an append-only audit trail entry tied to a prospect and
// optionally a contact. Activities are never updated or deleted.
type Activity struct {
	ID         string `json:"id"`
	ProspectID string `json:"prospect_id"`
	ContactID  string `json:"contact_id,omitempty"`

	Type        ActivityType `json:"type"`
	Subject     string       `json:"subject,omitempty"`
	Description string       `json:"description,omitempty"`

	AgentID string `json:"agent_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
