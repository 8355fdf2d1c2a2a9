package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/merge"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	pstrings "github.com/Ip-Tec/ContactSync-sub000/pkg/platform/strings"
)

// syncState is the remote snapshot shared by the sync workers. Match
// decisions and snapshot writes happen under the lock, so two device
// contacts describing the same person resolve to one record even when they
// are processed concurrently. Store writes happen outside the lock.
type syncState struct {
	mu     sync.Mutex
	remote []models.Contact
}

// decision is what syncOne resolved under the snapshot lock and must now
// persist.
type decision struct {
	create *models.Contact
	target id.ContactID
	name   string // new name to patch, empty when unchanged
	phones []string
	emails []string
}

func (d decision) isUpdate() bool {
	return d.name != "" || len(d.phones) > 0 || len(d.emails) > 0
}

// Sync reconciles one device snapshot against the owner's remote contacts.
// Each device contact is matched by fuzzy phone or exact email, then the
// remote side is patched (name, missing phones, missing emails) or a new
// record is created. Failures are per contact: the batch always runs to
// completion and the report counts every outcome.
func (s *Service) Sync(ctx context.Context, userID id.UserID, device []models.DeviceContact) (*models.SyncReport, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}

	remote, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load remote contacts")
	}

	state := &syncState{remote: remote}
	report := &models.SyncReport{}
	var reportMu sync.Mutex

	// Workers never return errors: an errgroup error would cancel the
	// batch, and one bad contact must not stop the rest.
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, dc := range device {
		g.Go(func() error {
			action := s.syncOne(ctx, userID, dc, state)
			reportMu.Lock()
			report.Add(action)
			reportMu.Unlock()
			s.countAction(action)
			return nil
		})
	}
	_ = g.Wait() // workers always return nil

	s.logger.Info("sync completed",
		"user_id", userID,
		"total", report.Total(),
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return report, nil
}

func (s *Service) syncOne(ctx context.Context, userID id.UserID, dc models.DeviceContact, state *syncState) models.SyncAction {
	if !dc.HasUsableName() {
		s.emitAudit(ctx, audit.Event{
			UserID: userID,
			Action: audit.ActionContactSkipped,
			Reason: "placeholder name",
		})
		return models.SyncSkipped
	}

	phones := s.matcher.Dedupe(dialable(dc.Phones))
	emails := pstrings.DedupeAndTrimLower(dc.Emails)
	if len(phones) == 0 && len(emails) == 0 {
		s.emitAudit(ctx, audit.Event{
			UserID:  userID,
			Action:  audit.ActionContactSkipped,
			Subject: dc.Name,
			Reason:  "no usable identifiers",
		})
		return models.SyncSkipped
	}

	d := s.decide(userID, dc, phones, emails, state)

	switch {
	case d.create != nil:
		if err := s.store.Create(ctx, d.create); err != nil {
			s.logger.Error("contact create failed", "user_id", userID, "name", dc.Name, "error", err)
			s.emitAudit(ctx, audit.Event{
				UserID:  userID,
				Action:  audit.ActionContactFailed,
				Subject: dc.Name,
				Reason:  err.Error(),
			})
			return models.SyncFailed
		}
		s.emitAudit(ctx, audit.Event{
			UserID:    userID,
			ContactID: d.create.ID,
			Action:    audit.ActionContactCreated,
			Subject:   dc.Name,
		})
		return models.SyncCreated

	case d.isUpdate():
		return s.applyUpdate(ctx, userID, d)

	default:
		// Matched and nothing to add: the record is already in sync.
		return models.SyncSkipped
	}
}

// decide resolves one device contact against the snapshot and reserves the
// outcome. Reserving under the lock (appending the created record, extending
// the matched record's fields) keeps later workers from re-creating or
// re-adding what this one is about to persist.
func (s *Service) decide(userID id.UserID, dc models.DeviceContact, phones, emails []string, state *syncState) decision {
	state.mu.Lock()
	defer state.mu.Unlock()

	idx := s.findMatch(state.remote, phones, emails)
	if idx < 0 {
		now := time.Now()
		created := models.Contact{
			ID:          id.NewContactID(),
			UserID:      userID,
			Name:        merge.Name(dc.Name),
			Phones:      phones,
			Emails:      emails,
			DOB:         dc.DOB,
			Country:     dc.Country,
			CountryCode: dc.CountryCode,
			Sex:         dc.Sex,
			ContactType: dc.ContactType,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		state.remote = append(state.remote, created)
		return decision{create: &created}
	}

	matched := &state.remote[idx]
	d := decision{target: matched.ID}

	if name := merge.Name(dc.Name); name != matched.Name {
		d.name = name
		matched.Name = name
	}
	for _, p := range phones {
		if !s.hasPhone(matched.Phones, p) {
			d.phones = append(d.phones, p)
			matched.Phones = append(matched.Phones, p)
		}
	}
	for _, e := range emails {
		if !hasEmail(matched.Emails, e) {
			d.emails = append(d.emails, e)
			matched.Emails = append(matched.Emails, e)
		}
	}
	return d
}

// applyUpdate persists the reserved patches. A partial failure still counts
// the contact as failed, but every patch is attempted.
func (s *Service) applyUpdate(ctx context.Context, userID id.UserID, d decision) models.SyncAction {
	failed := false

	if d.name != "" {
		if err := s.store.UpdateName(ctx, userID, d.target, d.name); err != nil {
			s.logger.Error("name update failed", "user_id", userID, "contact_id", d.target, "error", err)
			failed = true
		} else {
			s.emitAudit(ctx, audit.Event{
				UserID:    userID,
				ContactID: d.target,
				Action:    audit.ActionContactUpdated,
				Subject:   d.name,
			})
		}
	}
	for _, p := range d.phones {
		if err := s.store.AddPhone(ctx, userID, d.target, p); err != nil {
			s.logger.Error("phone insert failed", "user_id", userID, "contact_id", d.target, "error", err)
			failed = true
			continue
		}
		s.emitAudit(ctx, audit.Event{
			UserID:    userID,
			ContactID: d.target,
			Action:    audit.ActionFieldInserted,
			Subject:   p,
		})
	}
	for _, e := range d.emails {
		if err := s.store.AddEmail(ctx, userID, d.target, e); err != nil {
			s.logger.Error("email insert failed", "user_id", userID, "contact_id", d.target, "error", err)
			failed = true
			continue
		}
		s.emitAudit(ctx, audit.Event{
			UserID:    userID,
			ContactID: d.target,
			Action:    audit.ActionFieldInserted,
			Subject:   e,
		})
	}

	if failed {
		s.emitAudit(ctx, audit.Event{
			UserID:    userID,
			ContactID: d.target,
			Action:    audit.ActionContactFailed,
			Reason:    "one or more field writes failed",
		})
		return models.SyncFailed
	}
	return models.SyncUpdated
}

// findMatch returns the index of the first remote contact sharing a fuzzy
// phone or an exact email with the device contact, or -1.
func (s *Service) findMatch(remote []models.Contact, phones, emails []string) int {
	for i, r := range remote {
		for _, dp := range phones {
			for _, rp := range r.Phones {
				if s.matcher.Matches(dp, rp) {
					return i
				}
			}
		}
		for _, de := range emails {
			for _, re := range r.Emails {
				if merge.Email(re) == de {
					return i
				}
			}
		}
	}
	return -1
}

// hasPhone reports whether the record already carries the number under fuzzy
// equality, so near-variants of a stored number are not appended.
func (s *Service) hasPhone(existing []string, candidate string) bool {
	for _, p := range existing {
		if s.matcher.Matches(p, candidate) {
			return true
		}
	}
	return false
}

func hasEmail(existing []string, candidate string) bool {
	for _, e := range existing {
		if merge.Email(e) == candidate {
			return true
		}
	}
	return false
}

// dialable screens out entries with too few digits to be a phone number at
// all, such as USSD fragments and empty strings from malformed exports.
func dialable(phones []string) []string {
	kept := phones[:0:0]
	for _, p := range phones {
		if phone.LooksDialable(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func (s *Service) countAction(a models.SyncAction) {
	if s.metrics == nil {
		return
	}
	switch a {
	case models.SyncCreated:
		s.metrics.ContactsCreated.Inc()
	case models.SyncUpdated:
		s.metrics.ContactsUpdated.Inc()
	case models.SyncSkipped:
		s.metrics.ContactsSkipped.Inc()
	case models.SyncFailed:
		s.metrics.SyncFailures.Inc()
	}
}
