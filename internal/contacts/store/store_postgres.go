package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/sentinel"
)

// Postgres persists contacts in PostgreSQL. Multi-valued fields live in
// child tables, mirroring the mobile backend's row-per-value layout.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contact store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema creates the tables this store needs. Applied by the server at boot
// and by integration tests against throwaway databases.
const Schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL,
	name         TEXT NOT NULL,
	dob          TEXT NOT NULL DEFAULT '',
	country      TEXT NOT NULL DEFAULT '',
	country_code TEXT NOT NULL DEFAULT '',
	sex          TEXT NOT NULL DEFAULT '',
	contact_type TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS contacts_user_id_idx ON contacts (user_id);

CREATE TABLE IF NOT EXISTS contact_phones (
	contact_id UUID NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	phone      TEXT NOT NULL,
	position   INT  NOT NULL,
	PRIMARY KEY (contact_id, phone)
);

CREATE TABLE IF NOT EXISTS contact_emails (
	contact_id UUID NOT NULL REFERENCES contacts (id) ON DELETE CASCADE,
	email      TEXT NOT NULL,
	position   INT  NOT NULL,
	PRIMARY KEY (contact_id, email)
);
`

// EnsureSchema applies the schema.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure contacts schema: %w", err)
	}
	return nil
}

func (s *Postgres) ListByOwner(ctx context.Context, userID id.UserID) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, dob, country, country_code, sex, contact_type, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	for i := range contacts {
		if err := s.loadChildren(ctx, &contacts[i]); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

func (s *Postgres) Get(ctx context.Context, userID id.UserID, contactID id.ContactID) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, dob, country, country_code, sex, contact_type, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND user_id = $2`,
		uuid.UUID(contactID), uuid.UUID(userID))

	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Postgres) Create(ctx context.Context, contact *models.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create contact: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, name, dob, country, country_code, sex, contact_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(contact.ID), uuid.UUID(contact.UserID), contact.Name,
		contact.DOB, contact.Country, contact.CountryCode, contact.Sex, contact.ContactType,
		contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert contact: %w", err)
	}

	for i, p := range contact.Phones {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contact_phones (contact_id, phone, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			uuid.UUID(contact.ID), p, i); err != nil {
			return fmt.Errorf("insert contact phone: %w", err)
		}
	}
	for i, e := range contact.Emails {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contact_emails (contact_id, email, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`,
			uuid.UUID(contact.ID), e, i); err != nil {
			return fmt.Errorf("insert contact email: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create contact: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateName(ctx context.Context, userID id.UserID, contactID id.ContactID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET name = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3`,
		name, uuid.UUID(contactID), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("update contact name: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) AddPhone(ctx context.Context, userID id.UserID, contactID id.ContactID, phone string) error {
	return s.addChild(ctx, userID, contactID, "contact_phones", "phone", phone)
}

func (s *Postgres) AddEmail(ctx context.Context, userID id.UserID, contactID id.ContactID, email string) error {
	return s.addChild(ctx, userID, contactID, "contact_emails", "email", email)
}

func (s *Postgres) Delete(ctx context.Context, userID id.UserID, contactID id.ContactID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM contacts WHERE id = $1 AND user_id = $2`,
		uuid.UUID(contactID), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return requireRow(res)
}

// addChild appends one multi-value row, verifying ownership first so one
// user can never attach values to another user's record. The parent's
// updated_at advances in the same transaction: the duplicate-group cache
// fingerprints contacts by (id, updated_at), so a child-row append that left
// the parent untouched would keep serving pre-write groups from the cache.
func (s *Postgres) addChild(ctx context.Context, userID id.UserID, contactID id.ContactID, table, column, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add %s: %w", column, err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1 AND user_id = $2)`,
		uuid.UUID(contactID), uuid.UUID(userID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check contact ownership: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}

	// position = current count keeps capture order without a sequence.
	query := fmt.Sprintf(`
		INSERT INTO %s (contact_id, %s, position)
		VALUES ($1, $2, (SELECT COUNT(*) FROM %s WHERE contact_id = $1))
		ON CONFLICT DO NOTHING`, table, column, table)
	if _, err := tx.ExecContext(ctx, query, uuid.UUID(contactID), value); err != nil {
		return fmt.Errorf("add %s: %w", column, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE contacts SET updated_at = now() WHERE id = $1`,
		uuid.UUID(contactID)); err != nil {
		return fmt.Errorf("touch contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add %s: %w", column, err)
	}
	return nil
}

func (s *Postgres) loadChildren(ctx context.Context, c *models.Contact) error {
	phones, err := s.childValues(ctx, c.ID, "contact_phones", "phone")
	if err != nil {
		return err
	}
	emails, err := s.childValues(ctx, c.ID, "contact_emails", "email")
	if err != nil {
		return err
	}
	c.Phones = phones
	c.Emails = emails
	return nil
}

func (s *Postgres) childValues(ctx context.Context, contactID id.ContactID, table, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE contact_id = $1 ORDER BY position`, column, table)
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(contactID))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (models.Contact, error) {
	var (
		c                  models.Contact
		contactID, ownerID uuid.UUID
	)
	err := row.Scan(&contactID, &ownerID, &c.Name, &c.DOB, &c.Country, &c.CountryCode,
		&c.Sex, &c.ContactType, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Contact{}, err
	}
	c.ID = id.ContactID(contactID)
	c.UserID = id.UserID(ownerID)
	return c, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
