package domain

import "time"

// Activity actions recorded by the engine.
const (
	ActionApplicationSubmit = "APPLICATION_SUBMIT"
	ActionApplicationStatus = "APPLICATION_STATUS_UPDATE"
	ActionSessionCreate     = "SESSION_CREATE"
	ActionSessionDelete     = "SESSION_DELETE"
)

// ActivityEntry is an append-only audit record of a user action.
// Entries are write-only from the engine's perspective and never mutated.
type ActivityEntry struct {
	ID         string            `json:"id" bson:"_id,omitempty"`
	User       string            `json:"user" bson:"user"`
	Action     string            `json:"action" bson:"action"`
	ActorRole  string            `json:"actor_role" bson:"actor_role"`
	TargetType string            `json:"target_type" bson:"target_type"`
	TargetID   string            `json:"target_id" bson:"target_id"`
	Meta       map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
}
