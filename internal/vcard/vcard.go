// Package vcard renders contact records as vCard 3.0 text for export. The
// layout is the fixed one the mobile clients consume, not a general-purpose
// vCard writer.
package vcard

import (
	"strings"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
)

// Encode renders one card per contact, newline-joined. Phone numbers are
// written in local dialing format: countryCode carries the plus ("+234"),
// and numbers stored under it come out with a leading "0". Contacts with no
// name still get a card; the clients key on the TEL lines.
func Encode(contacts []models.Contact, countryCode string) string {
	var b strings.Builder
	for i, c := range contacts {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeCard(&b, c, countryCode)
	}
	return b.String()
}

func writeCard(b *strings.Builder, c models.Contact, countryCode string) {
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	b.WriteString("FN:" + c.Name + "\n")
	for _, p := range c.Phones {
		b.WriteString("TEL;TYPE=CELL:" + phone.RemoveCountryCode(p, countryCode) + "\n")
	}
	for _, e := range c.Emails {
		b.WriteString("EMAIL;TYPE=INTERNET:" + e + "\n")
	}
	b.WriteString("END:VCARD")
}
