// Package importer parses contact files uploaded by users into device
// contact records. Imports share the sync path with device snapshots, so the
// parsers only extract and screen fields; matching and persistence stay in
// the service.
package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
	dErrors "github.com/Ip-Tec/ContactSync-sub000/pkg/domain-errors"
)

// Importer screens parsed records before they reach the sync path. Files are
// messier than device address books: rows carry USSD codes, truncated
// numbers, and foreign-format entries, so numbers are dropped early rather
// than left for reconciliation to trip over.
type Importer struct {
	// region is an ISO 3166-1 alpha-2 code ("NG"). When set, numbers must
	// be valid for the region's numbering plan, not just dialable-looking.
	region string
}

type Option func(*Importer)

// WithRegion enables numbering-plan validation for the given region.
func WithRegion(region string) Option {
	return func(i *Importer) {
		i.region = region
	}
}

func New(opts ...Option) *Importer {
	i := &Importer{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ParseCSV reads rows of name, phones, emails. Multi-valued cells are
// ";"-separated. A header row is recognized by its first column and
// skipped. Rows with fewer than three columns are tolerated; extra columns
// are ignored.
func (imp *Importer) ParseCSV(r io.Reader) ([]models.DeviceContact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var contacts []models.DeviceContact
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed csv")
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}

		c := models.DeviceContact{Name: strings.TrimSpace(column(row, 0))}
		c.Phones = imp.screenPhones(splitCell(column(row, 1)))
		c.Emails = splitCell(column(row, 2))
		if c.Name == "" && len(c.Phones) == 0 && len(c.Emails) == 0 {
			continue
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// ParseVCF reads vCard 3.0 cards, extracting FN, TEL, and EMAIL properties.
// Property parameters ("TEL;TYPE=CELL") are ignored; unknown properties are
// skipped. A card missing END is rejected.
func (imp *Importer) ParseVCF(r io.Reader) ([]models.DeviceContact, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable vcf")
	}

	var contacts []models.DeviceContact
	var current *models.DeviceContact
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		name, value := splitProperty(line)
		switch name {
		case "BEGIN":
			if strings.EqualFold(value, "VCARD") {
				current = &models.DeviceContact{}
			}
		case "END":
			if current != nil && strings.EqualFold(value, "VCARD") {
				current.Phones = imp.screenPhones(current.Phones)
				contacts = append(contacts, *current)
				current = nil
			}
		case "FN":
			if current != nil {
				current.Name = strings.TrimSpace(value)
			}
		case "TEL":
			if current != nil && strings.TrimSpace(value) != "" {
				current.Phones = append(current.Phones, strings.TrimSpace(value))
			}
		case "EMAIL":
			if current != nil && strings.TrimSpace(value) != "" {
				current.Emails = append(current.Emails, strings.TrimSpace(value))
			}
		}
	}
	if current != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "vcf: unterminated card")
	}
	return contacts, nil
}

// splitProperty separates a content line into its property name and value,
// dropping parameters: "TEL;TYPE=CELL:0803..." yields ("TEL", "0803...").
func splitProperty(line string) (string, string) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return "", ""
	}
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(strings.TrimSpace(name)), value
}

func (imp *Importer) screenPhones(phones []string) []string {
	var kept []string
	for _, p := range phones {
		if !phone.LooksDialable(p) {
			continue
		}
		if imp.region != "" && !phone.IsValidForRegion(p, imp.region) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func splitCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(cell, ";") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func column(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
