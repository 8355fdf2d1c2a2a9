// Package dupes clusters contact records whose phone numbers are
// approximately equal under edit-distance similarity.
package dupes

import (
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
)

// Grouper finds duplicate clusters in a contact snapshot. It is a pure
// function of its input: no state survives between runs, so callers can
// recompute on any snapshot change or push runs onto a background goroutine.
type Grouper struct {
	threshold float64
}

// NewGrouper builds a Grouper declaring two numbers similar at or above the
// given threshold. Zero falls back to the default tuning.
func NewGrouper(threshold float64) *Grouper {
	if threshold == 0 {
		threshold = phone.DefaultOptions().SimilarityThreshold
	}
	return &Grouper{threshold: threshold}
}

// Group partitions contacts into duplicate clusters and returns only groups
// of two or more members.
//
// Clustering is a union-find over the pairwise-similar relation: two
// contacts land in the same group whenever a chain of similar pairs links
// them, regardless of input order. Groups come out ordered by their
// earliest member's position and members keep input order, so the result is
// deterministic for a given snapshot.
//
// Cost is O(n²·L²) over n contacts and phone length L; hundreds of contacts
// belong on a background worker, not an interactive path.
func (g *Grouper) Group(contacts []models.Contact) []models.DuplicateGroup {
	n := len(contacts)
	if n < 2 {
		return nil
	}

	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if g.similar(contacts[i], contacts[j]) {
				uf.union(i, j)
			}
		}
	}

	// Collect components keyed by root, preserving input order.
	memberIdx := make(map[int][]int, n)
	var roots []int
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, ok := memberIdx[root]; !ok {
			roots = append(roots, root)
		}
		memberIdx[root] = append(memberIdx[root], i)
	}

	var groups []models.DuplicateGroup
	for _, root := range roots {
		idxs := memberIdx[root]
		if len(idxs) < 2 {
			continue
		}
		members := make([]models.Contact, 0, len(idxs))
		for _, i := range idxs {
			members = append(members, contacts[i])
		}
		groups = append(groups, models.DuplicateGroup{Members: members})
	}
	return groups
}

// similar reports whether any phone of a is similar to any phone of b.
func (g *Grouper) similar(a, b models.Contact) bool {
	for _, pa := range a.Phones {
		for _, pb := range b.Phones {
			if phone.Similarity(pa, pb) >= g.threshold {
				return true
			}
		}
	}
	return false
}

// unionFind is a standard disjoint-set with path compression and union by
// rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}
