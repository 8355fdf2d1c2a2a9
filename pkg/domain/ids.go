// Package domain holds typed identifiers shared across the contact sync
// service. IDs are uuid-backed distinct types so a ContactID can never be
// passed where a UserID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
)

// UserID identifies the owner of a set of contact records.
type UserID uuid.UUID

// ContactID identifies a single remote contact record.
type ContactID uuid.UUID

// ParseUserID validates and returns a UserID.
// Construct IDs through Parse* at trust boundaries; direct casting bypasses
// the non-nil invariant.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseContactID validates and returns a ContactID.
func ParseContactID(s string) (ContactID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ContactID{}, err
	}
	return ContactID(u), nil
}

// NewContactID returns a freshly generated ContactID.
func NewContactID() ContactID {
	return ContactID(uuid.New())
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "nil id")
	}
	return u, nil
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id ContactID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ContactID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the canonical string form in JSON payloads; defined
// types do not inherit uuid.UUID's methods.

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id ContactID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ContactID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ContactID(u)
	return nil
}
