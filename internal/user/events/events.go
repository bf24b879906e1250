// Package events defines the lifecycle events the user service emits.
//
// Events are integration signals for downstream consumers, not an audit
// trail: nothing in this service stores or serves event history. Emission
// is best-effort and never fails the originating request.
package events

import (
	"context"
	"time"

	id "roster/pkg/domain"
)

// Type names a lifecycle transition.
type Type string

const (
	TypeUserCreated Type = "user.created"
	TypeUserUpdated Type = "user.updated"
	TypeUserPatched Type = "user.patched"
	TypeUserDeleted Type = "user.deleted"
)

// Event is emitted after a successful store mutation. Keep it
// transport-agnostic so publishers can fan out.
type Event struct {
	Type      Type      `json:"type"`
	UserID    id.UserID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Publisher delivers events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
