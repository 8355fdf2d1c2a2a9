// Package cache memoizes duplicate-grouping runs in Redis. Grouping is
// quadratic in the snapshot size, so repeat requests against an unchanged
// contact list should not pay for it twice.
//
// Entries are keyed by a fingerprint of the snapshot: any write to the
// owner's contacts changes the fingerprint, which makes invalidation
// implicit. Stale fingerprints age out via TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	platformredis "github.com/Ip-Tec/ContactSync-sub000/internal/platform/redis"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

// GroupCache is nil-client safe: without Redis configured every lookup is a
// miss and every store is a no-op, so callers need no branches.
type GroupCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// New builds a GroupCache. client may be nil.
func New(client *platformredis.Client, ttl time.Duration) *GroupCache {
	return &GroupCache{client: client, ttl: ttl}
}

// Fingerprint derives a stable key from a contact snapshot. ID and update
// time capture every mutation path the store exposes.
func Fingerprint(contacts []models.Contact) string {
	h := sha256.New()
	for _, c := range contacts {
		fmt.Fprintf(h, "%s|%d\n", c.ID, c.UpdatedAt.UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached groups for the fingerprint, or ok=false on miss or
// any Redis failure. Cache errors are never surfaced; the caller just
// recomputes.
func (c *GroupCache) Get(ctx context.Context, userID id.UserID, fingerprint string) ([]models.DuplicateGroup, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Client.Get(ctx, c.key(userID, fingerprint)).Bytes()
	if err != nil {
		return nil, false
	}
	var groups []models.DuplicateGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, false
	}
	return groups, true
}

// Set stores the groups for the fingerprint.
func (c *GroupCache) Set(ctx context.Context, userID id.UserID, fingerprint string, groups []models.DuplicateGroup) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return
	}
	c.client.Client.Set(ctx, c.key(userID, fingerprint), raw, c.ttl)
}

func (c *GroupCache) key(userID id.UserID, fingerprint string) string {
	return "contactsync:dupgroups:" + userID.String() + ":" + fingerprint
}
