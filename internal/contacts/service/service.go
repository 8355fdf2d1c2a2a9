// Package service orchestrates contact reconciliation: it resolves device
// snapshots against the remote store, surfaces duplicate groups, and applies
// user-confirmed merges. Handlers stay thin; all decisions live here.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/cache"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/dupes"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/store"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/metrics"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/middleware"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
)

// AuditPublisher records what reconciliation did, per contact and per field.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// GroupCache caches duplicate-group results per owner snapshot. Implementations
// must treat misses and backend failures identically (return ok=false).
type GroupCache interface {
	Get(ctx context.Context, userID id.UserID, fingerprint string) ([]models.DuplicateGroup, bool)
	Set(ctx context.Context, userID id.UserID, fingerprint string, groups []models.DuplicateGroup)
}

// Service wires the resolution core to a remote store.
type Service struct {
	store          store.Store
	matcher        *phone.Matcher
	grouper        *dupes.Grouper
	workers        int
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	cache          GroupCache
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithGroupCache(cache GroupCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithWorkers bounds the per-contact parallelism of Sync. Values below 1 fall
// back to sequential processing.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New constructs a Service. The phone options tune normalization, fuzzy
// matching, and grouping for the deployment's numbering plan.
func New(st store.Store, opts phone.Options, options ...Option) *Service {
	s := &Service{
		store:   st,
		matcher: phone.NewMatcher(opts),
		grouper: dupes.NewGrouper(opts.SimilarityThreshold),
		workers: 1,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// List returns the owner's remote contacts.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]models.Contact, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	contacts, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contacts")
	}
	return contacts, nil
}

// DuplicateGroups computes the owner's duplicate clusters from the current
// remote snapshot. Results are cached per snapshot fingerprint, so any write
// to the owner's contacts implicitly invalidates them.
func (s *Service) DuplicateGroups(ctx context.Context, userID id.UserID) ([]models.DuplicateGroup, error) {
	contacts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	fingerprint := cache.Fingerprint(contacts)
	if s.cache != nil {
		if groups, ok := s.cache.Get(ctx, userID, fingerprint); ok {
			return groups, nil
		}
	}

	start := time.Now()
	groups := s.grouper.Group(contacts)
	if s.metrics != nil {
		s.metrics.GroupingDuration.Observe(time.Since(start).Seconds())
		s.metrics.DuplicateGroups.Set(float64(len(groups)))
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, fingerprint, groups)
	}
	return groups, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = middleware.GetRequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.Warn("audit emit failed", "action", event.Action, "error", err)
	}
}
