// Package postgres persists audit events in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
)

// Store appends audit events to an append-only table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the audit table.
const Schema = `
CREATE TABLE IF NOT EXISTS sync_audit (
	id         UUID PRIMARY KEY,
	ts         TIMESTAMPTZ NOT NULL,
	user_id    UUID NOT NULL,
	contact_id UUID,
	action     TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS sync_audit_user_idx ON sync_audit (user_id, ts);
`

// EnsureSchema applies the schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var contactID any
	if !event.ContactID.IsNil() {
		contactID = uuid.UUID(event.ContactID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_audit (id, ts, user_id, contact_id, action, subject, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), event.Timestamp, uuid.UUID(event.UserID), contactID,
		string(event.Action), event.Subject, event.Reason, event.RequestID)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, user_id, contact_id, action, subject, reason, request_id
		FROM sync_audit
		WHERE user_id = $1
		ORDER BY ts`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e         audit.Event
			ownerID   uuid.UUID
			contactID uuid.NullUUID
			action    string
		)
		if err := rows.Scan(&e.Timestamp, &ownerID, &contactID, &action, &e.Subject, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UserID = id.UserID(ownerID)
		if contactID.Valid {
			e.ContactID = id.ContactID(contactID.UUID)
		}
		e.Action = audit.Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}
