package conversation

import (
	"time"

	"lifeline/app/service/reasoner"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// State is the durable per-sender conversation lifecycle record.
type State struct {
	Sender    string    `json:"sender"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entry is one transcript line. Entries are append-only.
type Entry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Context is the transient per-sender state that lives only while a
// conversation is open. It lets the orchestrator skip questions that
// were already answered and resume a deferred SOS once the missing
// ingredient arrives.
type Context struct {
	LocationReceived    bool
	DescriptionReceived bool
	PendingSOS          *reasoner.Decision
}
