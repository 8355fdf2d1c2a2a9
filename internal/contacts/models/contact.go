// Package models defines the contact records exchanged between the device
// snapshot, the resolution core, and the remote store.
package models

import (
	"strings"
	"time"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

// placeholderNames are values device exports use when a contact has no real
// name. Records carrying one are dropped before reaching the core.
var placeholderNames = map[string]bool{
	"":        true,
	"null":    true,
	"unknown": true,
}

// DeviceContact is one contact as captured from a device or an imported
// file: ephemeral, unkeyed, re-read on every sync. Phones and emails keep
// capture order and are unique only under exact string equality.
type DeviceContact struct {
	Name        string   `json:"name"`
	Phones      []string `json:"phoneNumbers,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	DOB         string   `json:"dob,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Sex         string   `json:"sex,omitempty"`
	ContactType string   `json:"contactType,omitempty"`
}

// HasUsableName reports whether the record carries a real name. The device
// loader filters placeholders upstream; the service re-checks because file
// imports share the sync path.
func (c DeviceContact) HasUsableName() bool {
	return !placeholderNames[strings.ToLower(strings.TrimSpace(c.Name))]
}

// Contact is a durable remote record, keyed and owned.
type Contact struct {
	ID          id.ContactID `json:"id"`
	UserID      id.UserID    `json:"user_id"`
	Name        string       `json:"name"`
	Phones      []string     `json:"phoneNumbers"`
	Emails      []string     `json:"emails"`
	DOB         string       `json:"dob,omitempty"`
	Country     string       `json:"country,omitempty"`
	CountryCode string       `json:"countryCode,omitempty"`
	Sex         string       `json:"sex,omitempty"`
	ContactType string       `json:"contactType,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DuplicateGroup is a cluster of two or more contacts linked by at least one
// pairwise-similar phone number. Computed on demand from a snapshot, never
// persisted.
type DuplicateGroup struct {
	Members []Contact `json:"members"`
}

// MergedContact is the synthesized record produced from a duplicate group or
// a multi-source field union. Scalars come from the base member; emails and
// phones are unions. Transient: the caller decides whether to persist it.
type MergedContact struct {
	Base   Contact  `json:"base"`
	Name   string   `json:"name"`
	Phones []string `json:"phoneNumbers"`
	Emails []string `json:"emails"`
}

// SyncAction classifies what the reconciliation pass did with one device
// contact.
type SyncAction string

const (
	SyncCreated SyncAction = "created"
	SyncUpdated SyncAction = "updated"
	SyncSkipped SyncAction = "skipped"
	SyncFailed  SyncAction = "failed"
)

// SyncReport aggregates a reconciliation pass. Failures are counted, not
// fatal: one bad contact never aborts the batch.
type SyncReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add records one contact's outcome.
func (r *SyncReport) Add(a SyncAction) {
	switch a {
	case SyncCreated:
		r.Created++
	case SyncUpdated:
		r.Updated++
	case SyncSkipped:
		r.Skipped++
	case SyncFailed:
		r.Failed++
	}
}

// Total is the number of device contacts the pass looked at.
func (r SyncReport) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Failed
}
