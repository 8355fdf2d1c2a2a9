// Package store persists remote contact records. Implementations return
// sentinel errors for infrastructure facts; services translate those into
// domain errors.
package store

import (
	"context"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

// Store is the remote record capability the reconciliation engine needs:
// query by owner, create with child rows, patch scalars, append child rows.
// Every failure is recoverable per call; callers decide whether to continue.
type Store interface {
	// ListByOwner returns the owner's contacts with phones and emails
	// populated, ordered by creation time.
	ListByOwner(ctx context.Context, userID id.UserID) ([]models.Contact, error)

	// Get returns one contact, scoped to its owner.
	Get(ctx context.Context, userID id.UserID, contactID id.ContactID) (*models.Contact, error)

	// Create inserts a contact plus its phone and email child rows.
	Create(ctx context.Context, contact *models.Contact) error

	// UpdateName patches the contact's name.
	UpdateName(ctx context.Context, userID id.UserID, contactID id.ContactID, name string) error

	// AddPhone appends one phone row. Adding a phone already present on the
	// record is a no-op, not an error.
	AddPhone(ctx context.Context, userID id.UserID, contactID id.ContactID, phone string) error

	// AddEmail appends one email row, no-op on exact duplicates.
	AddEmail(ctx context.Context, userID id.UserID, contactID id.ContactID, email string) error

	// Delete removes a contact and its child rows. Used when a duplicate
	// group is merged and absorbed members are retired.
	Delete(ctx context.Context, userID id.UserID, contactID id.ContactID) error
}
