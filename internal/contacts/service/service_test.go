package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/store"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	auditmemory "github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/store/memory"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/publisher"
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	owner    id.UserID
	store    *store.InMemory
	auditLog *auditmemory.InMemoryStore
	svc      *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = id.UserID(uuid.New())
	s.store = store.NewInMemory()
	s.auditLog = auditmemory.NewInMemoryStore()
	s.svc = New(s.store, phone.DefaultOptions(),
		WithAuditPublisher(publisher.NewPublisher(s.auditLog)),
		WithWorkers(4),
	)
}

func (s *ServiceSuite) seed(name string, phones, emails []string) models.Contact {
	c := models.Contact{
		ID:     id.NewContactID(),
		UserID: s.owner,
		Name:   name,
		Phones: phones,
		Emails: emails,
	}
	s.Require().NoError(s.store.Create(s.ctx, &c))
	return c
}

func (s *ServiceSuite) TestSyncCreatesNewContacts() {
	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"08031234567"}},
		{Name: "Chidi Eze", Phones: []string{"0706 555 4567"}, Emails: []string{"Chidi@Example.com"}},
	})
	s.Require().NoError(err)
	s.Equal(2, report.Created)
	s.Equal(0, report.Failed)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(contacts, 2)

	byName := indexByName(contacts)
	s.Equal([]string{"+2348031234567"}, byName["Ada Obi"].Phones)
	s.Equal([]string{"+2347065554567"}, byName["Chidi Eze"].Phones)
	s.Equal([]string{"chidi@example.com"}, byName["Chidi Eze"].Emails)
}

func (s *ServiceSuite) TestSyncSkipsPlaceholderNames() {
	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "", Phones: []string{"08031234567"}},
		{Name: "null", Phones: []string{"08031234568"}},
		{Name: "Unknown", Phones: []string{"08031234569"}},
	})
	s.Require().NoError(err)
	s.Equal(3, report.Skipped)
	s.Equal(0, report.Created)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Empty(contacts)
}

func (s *ServiceSuite) TestSyncSkipsContactsWithoutIdentifiers() {
	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "No Fields"},
		{Name: "Short Code", Phones: []string{"*123#"}},
	})
	s.Require().NoError(err)
	s.Equal(2, report.Skipped)
}

func (s *ServiceSuite) TestSyncUpdatesNameOnFuzzyPhoneMatch() {
	existing := s.seed("Ada", []string{"+2348031234567"}, nil)

	// Ten digits, no prefix: matches the stored number on its 9-digit tail.
	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"8031234567"}},
	})
	s.Require().NoError(err)
	s.Equal(1, report.Updated)
	s.Equal(0, report.Created)

	got, err := s.store.Get(s.ctx, s.owner, existing.ID)
	s.Require().NoError(err)
	s.Equal("Ada Obi", got.Name)
	// Fuzzy-equal numbers are not appended as new rows.
	s.Equal([]string{"+2348031234567"}, got.Phones)
}

func (s *ServiceSuite) TestSyncInsertsMissingFields() {
	existing := s.seed("Ada Obi", []string{"+2348031234567"}, nil)

	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{
			Name:   "Ada Obi",
			Phones: []string{"08031234567", "07065554567"},
			Emails: []string{"Ada@Example.com"},
		},
	})
	s.Require().NoError(err)
	s.Equal(1, report.Updated)

	got, err := s.store.Get(s.ctx, s.owner, existing.ID)
	s.Require().NoError(err)
	s.Equal([]string{"+2348031234567", "+2347065554567"}, got.Phones)
	s.Equal([]string{"ada@example.com"}, got.Emails)
}

func (s *ServiceSuite) TestSyncMatchesByExactEmail() {
	existing := s.seed("Ngozi", nil, []string{"ngozi@example.com"})

	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ngozi", Phones: []string{"08099887766"}, Emails: []string{"NGOZI@example.com"}},
	})
	s.Require().NoError(err)
	s.Equal(1, report.Updated)
	s.Equal(0, report.Created)

	got, err := s.store.Get(s.ctx, s.owner, existing.ID)
	s.Require().NoError(err)
	s.Equal([]string{"+2348099887766"}, got.Phones)
}

func (s *ServiceSuite) TestSyncIsIdempotent() {
	device := []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"08031234567"}, Emails: []string{"ada@example.com"}},
		{Name: "Chidi Eze", Phones: []string{"07065554567"}},
	}

	first, err := s.svc.Sync(s.ctx, s.owner, device)
	s.Require().NoError(err)
	s.Equal(2, first.Created)

	second, err := s.svc.Sync(s.ctx, s.owner, device)
	s.Require().NoError(err)
	s.Equal(0, second.Created)
	s.Equal(0, second.Updated)
	s.Equal(2, second.Skipped)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(contacts, 2)
}

func (s *ServiceSuite) TestSyncCollapsesDuplicatesWithinBatch() {
	// Same subscriber twice in one snapshot, different formatting. Exactly
	// one record may come out, whichever worker decides first.
	report, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"08031234567"}},
		{Name: "Ada Obi", Phones: []string{"+234 803 123 4567"}},
	})
	s.Require().NoError(err)
	s.Equal(1, report.Created)
	s.Equal(1, report.Skipped)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(contacts, 1)
}

func (s *ServiceSuite) TestSyncContinuesPastFailures() {
	failing := &createFailingStore{Store: s.store, failName: "Boom"}
	svc := New(failing, phone.DefaultOptions(), WithWorkers(1))

	report, err := svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"08031234567"}},
		{Name: "Boom", Phones: []string{"08031234568"}},
		{Name: "Chidi Eze", Phones: []string{"08031234569"}},
	})
	s.Require().NoError(err)
	s.Equal(2, report.Created)
	s.Equal(1, report.Failed)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(contacts, 2)
}

func (s *ServiceSuite) TestSyncRejectsNilUser() {
	_, err := s.svc.Sync(s.ctx, id.UserID{}, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestSyncWritesAuditTrail() {
	_, err := s.svc.Sync(s.ctx, s.owner, []models.DeviceContact{
		{Name: "Ada Obi", Phones: []string{"08031234567"}},
		{Name: "null", Phones: []string{"08031234568"}},
	})
	s.Require().NoError(err)

	events, err := s.auditLog.ListByUser(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	actions := make(map[audit.Action]int)
	for _, e := range events {
		actions[e.Action]++
	}
	s.Equal(1, actions[audit.ActionContactCreated])
	s.Equal(1, actions[audit.ActionContactSkipped])
}

func (s *ServiceSuite) TestDuplicateGroups() {
	a := s.seed("Ada", []string{"+2348031234567"}, nil)
	b := s.seed("Ada Obi", []string{"+2348031234568"}, nil)
	s.seed("Chidi", []string{"+2347099999999"}, nil)

	groups, err := s.svc.DuplicateGroups(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Require().Len(groups[0].Members, 2)

	ids := []id.ContactID{groups[0].Members[0].ID, groups[0].Members[1].ID}
	s.ElementsMatch([]id.ContactID{a.ID, b.ID}, ids)
}

func (s *ServiceSuite) TestDuplicateGroupsUsesCacheUntilSnapshotChanges() {
	a := s.seed("Ada", []string{"+2348031234567"}, nil)
	s.seed("Ada Obi", []string{"+2348031234568"}, nil)

	cache := newStubCache()
	svc := New(s.store, phone.DefaultOptions(), WithGroupCache(cache))

	_, err := svc.DuplicateGroups(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(1, cache.sets)

	_, err = svc.DuplicateGroups(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(1, cache.sets, "second run with an unchanged snapshot must hit the cache")
	s.Equal(1, cache.hits)

	// Any store write moves the fingerprint, so the next run recomputes.
	s.Require().NoError(s.store.AddPhone(s.ctx, s.owner, a.ID, "+2348177777777"))
	_, err = svc.DuplicateGroups(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(2, cache.sets)
}

func (s *ServiceSuite) TestMergeGroup() {
	a := s.seed("Ada", []string{"+2348031234567"}, []string{"ada@example.com"})
	b := s.seed("Ada Obi", []string{"+2348031234568"}, []string{"Ada@Example.com"})

	merged, err := s.svc.MergeGroup(s.ctx, s.owner, []id.ContactID{a.ID, b.ID})
	s.Require().NoError(err)
	s.Equal(a.ID, merged.Base.ID)
	s.Equal("Ada", merged.Name)
	s.Equal([]string{"+2348031234567", "+2348031234568"}, merged.Phones)
	s.Equal([]string{"ada@example.com"}, merged.Emails)

	contacts, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(contacts, 1)
	s.Equal(a.ID, contacts[0].ID)
	s.Equal([]string{"+2348031234567", "+2348031234568"}, contacts[0].Phones)
	s.Equal([]string{"ada@example.com"}, contacts[0].Emails)

	_, err = s.store.Get(s.ctx, s.owner, b.ID)
	s.Error(err)

	events, err := s.auditLog.ListByUser(s.ctx, s.owner)
	s.Require().NoError(err)
	actions := make(map[audit.Action]int)
	for _, e := range events {
		actions[e.Action]++
	}
	s.Equal(1, actions[audit.ActionGroupMerged])
	s.Equal(1, actions[audit.ActionContactAbsorbed])
}

func (s *ServiceSuite) TestMergeGroupValidation() {
	a := s.seed("Ada", []string{"+2348031234567"}, nil)

	_, err := s.svc.MergeGroup(s.ctx, s.owner, []id.ContactID{a.ID})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = s.svc.MergeGroup(s.ctx, s.owner, []id.ContactID{a.ID, a.ID})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = s.svc.MergeGroup(s.ctx, s.owner, []id.ContactID{a.ID, id.NewContactID()})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestMergeGroupIsOwnerScoped() {
	a := s.seed("Ada", []string{"+2348031234567"}, nil)

	stranger := models.Contact{
		ID:     id.NewContactID(),
		UserID: id.UserID(uuid.New()),
		Name:   "Ada Obi",
		Phones: []string{"+2348031234568"},
	}
	s.Require().NoError(s.store.Create(s.ctx, &stranger))

	_, err := s.svc.MergeGroup(s.ctx, s.owner, []id.ContactID{a.ID, stranger.ID})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func indexByName(contacts []models.Contact) map[string]models.Contact {
	out := make(map[string]models.Contact, len(contacts))
	for _, c := range contacts {
		out[c.Name] = c
	}
	return out
}

// createFailingStore fails Create for one contact name so batch continuation
// can be observed against otherwise real storage.
type createFailingStore struct {
	store.Store
	failName string
}

func (f *createFailingStore) Create(ctx context.Context, contact *models.Contact) error {
	if contact.Name == f.failName {
		return errors.New("storage unavailable")
	}
	return f.Store.Create(ctx, contact)
}

// stubCache is an in-process GroupCache recording hit and store counts.
type stubCache struct {
	entries map[string][]models.DuplicateGroup
	hits    int
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]models.DuplicateGroup)}
}

func (c *stubCache) Get(_ context.Context, userID id.UserID, fingerprint string) ([]models.DuplicateGroup, bool) {
	groups, ok := c.entries[userID.String()+":"+fingerprint]
	if ok {
		c.hits++
	}
	return groups, ok
}

func (c *stubCache) Set(_ context.Context, userID id.UserID, fingerprint string, groups []models.DuplicateGroup) {
	c.sets++
	c.entries[userID.String()+":"+fingerprint] = groups
}
