package service

import (
	"context"
	"errors"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/merge"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/sentinel"
)

// MergeGroup collapses a user-confirmed duplicate group into its first
// member. The base record absorbs the union of everyone's phones and emails,
// then the other members are deleted. Member order is the caller's: the
// first ID names the survivor.
//
// The merge is not atomic across store calls. Field appends are idempotent
// no-ops on replay and deletion comes last, so a retry after a partial
// failure converges to the same end state.
func (s *Service) MergeGroup(ctx context.Context, userID id.UserID, memberIDs []id.ContactID) (*models.MergedContact, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	if len(memberIDs) < 2 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a merge needs at least two members")
	}
	if hasDuplicateID(memberIDs) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "member ids must be distinct")
	}

	members := make([]models.Contact, 0, len(memberIDs))
	for _, cid := range memberIDs {
		c, err := s.store.Get(ctx, userID, cid)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "contact not found: "+cid.String())
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group member")
		}
		members = append(members, *c)
	}

	merged := merge.Group(members)
	base := merged.Base

	if merged.Name != base.Name {
		if err := s.store.UpdateName(ctx, userID, base.ID, merged.Name); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update merged name")
		}
	}
	for _, p := range merged.Phones {
		if err := s.store.AddPhone(ctx, userID, base.ID, p); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to merge phone")
		}
	}
	for _, e := range merged.Emails {
		if err := s.store.AddEmail(ctx, userID, base.ID, e); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to merge email")
		}
	}

	for _, m := range members[1:] {
		if err := s.store.Delete(ctx, userID, m.ID); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retire absorbed contact")
		}
		s.emitAudit(ctx, audit.Event{
			UserID:    userID,
			ContactID: m.ID,
			Action:    audit.ActionContactAbsorbed,
			Subject:   base.ID.String(),
		})
	}

	s.emitAudit(ctx, audit.Event{
		UserID:    userID,
		ContactID: base.ID,
		Action:    audit.ActionGroupMerged,
	})
	if s.metrics != nil {
		s.metrics.MergesPerformed.Inc()
	}
	s.logger.Info("duplicate group merged",
		"user_id", userID,
		"base_id", base.ID,
		"absorbed", len(members)-1)

	return &merged, nil
}

func hasDuplicateID(ids []id.ContactID) bool {
	seen := make(map[id.ContactID]bool, len(ids))
	for _, cid := range ids {
		if seen[cid] {
			return true
		}
		seen[cid] = true
	}
	return false
}
