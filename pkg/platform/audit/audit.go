// Package audit records what the sync engine did to a user's contact
// graph. Reconciliation is continue-on-error, so the audit trail is the only
// complete account of a batch: every create, patch, merge, and failure lands
// here even when the HTTP response only carries counters.
package audit

import (
	"context"
	"time"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

// Action names a recorded sync outcome.
type Action string

const (
	ActionContactCreated  Action = "contact_created"
	ActionContactUpdated  Action = "contact_updated"
	ActionFieldInserted   Action = "field_inserted"
	ActionContactSkipped  Action = "contact_skipped"
	ActionContactFailed   Action = "contact_failed"
	ActionGroupMerged     Action = "duplicate_group_merged"
	ActionContactAbsorbed Action = "contact_absorbed"
	ActionImportAccepted  Action = "import_accepted"
)

// Event is emitted from domain logic to capture one action. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    id.UserID
	ContactID id.ContactID
	Action    Action
	// Subject is the field value acted on (a normalized phone, an email),
	// empty for whole-record actions.
	Subject string
	// Reason carries the failure message for *_failed events.
	Reason string
	// RequestID correlates the event with the HTTP request that caused it.
	RequestID string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
