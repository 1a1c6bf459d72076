// internal/app/system/contactinfo/contactinfo.go
//
// Package contactinfo normalizes the email and phone arrays of client entity
// payloads before they are stored.
//
// Older clients send plain string arrays, or flat fields such as
// siteContactNumbersMobile and siteEmail. These are upgraded into the
// structured {email|phoneNumber, location, isPrimary} shape and the flat
// fields are removed. The resulting arrays carry exactly one primary entry
// when non-empty (first flagged wins).
package contactinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/canopyhub/internal/domain/models"
)

// ErrInvalidShape is returned when an email or phone value cannot be read.
var ErrInvalidShape = errors.New("invalid contact info")

// Locations given to phone numbers upgraded from the flat legacy fields.
const (
	LocationMobile   = "Mobile"
	LocationLandline = "Landline"
)

// Fields names the contact-info keys of one entity kind.
type Fields struct {
	Emails       string // structured email array, e.g. "siteEmails"
	Phones       string // structured phone array, e.g. "siteContactNumbers"
	LegacyEmail  string // flat single email, e.g. "siteEmail"
	LegacyMobile string
	LegacyLand   string
}

// For builds the field names for an entity prefix such as "site".
// Contacts use "contact" and their phone array is "contactNumbers".
func For(prefix string) Fields {
	phones := prefix + "ContactNumbers"
	if prefix == "contact" {
		phones = "contactNumbers"
	}
	return Fields{
		Emails:       prefix + "Emails",
		Phones:       phones,
		LegacyEmail:  prefix + "Email",
		LegacyMobile: phones + "Mobile",
		LegacyLand:   phones + "Land",
	}
}

// NormalizePayload rewrites body in place. Arrays that were not submitted
// stay absent unless a legacy flat field supplies them.
func NormalizePayload(body map[string]any, f Fields) error {
	legacyEmail := str(body[f.LegacyEmail])
	mobile := str(body[f.LegacyMobile])
	land := str(body[f.LegacyLand])
	delete(body, f.LegacyEmail)
	delete(body, f.LegacyMobile)
	delete(body, f.LegacyLand)

	if raw, ok := body[f.Emails]; ok {
		emails, err := Emails(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Emails, err)
		}
		body[f.Emails] = emails
	} else if legacyEmail != "" {
		body[f.Emails] = []models.Email{{Email: legacyEmail, IsPrimary: true}}
	}

	if raw, ok := body[f.Phones]; ok {
		phones, err := Phones(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Phones, err)
		}
		body[f.Phones] = phones
	} else if mobile != "" || land != "" {
		var phones []models.PhoneNumber
		if mobile != "" {
			phones = append(phones, models.PhoneNumber{PhoneNumber: mobile, Location: LocationMobile})
		}
		if land != "" {
			phones = append(phones, models.PhoneNumber{PhoneNumber: land, Location: LocationLandline})
		}
		models.EnforcePrimary(phones)
		body[f.Phones] = phones
	}
	return nil
}

// Emails reads an email array in any accepted shape: nil, a single string,
// an array of strings, or an array of objects. Blank entries are dropped.
func Emails(raw any) ([]models.Email, error) {
	items, err := list(raw)
	if err != nil {
		return nil, err
	}
	out := make([]models.Email, 0, len(items))
	for _, it := range items {
		var e models.Email
		switch tv := it.(type) {
		case string:
			e.Email = tv
		case map[string]any:
			e.Email = str(tv["email"])
			e.Location = str(tv["location"])
			e.IsPrimary = truthy(tv["isPrimary"])
		case models.Email:
			e = tv
		default:
			return nil, fmt.Errorf("%w: email entry %T", ErrInvalidShape, it)
		}
		e.Email = strings.TrimSpace(e.Email)
		if e.Email == "" {
			continue
		}
		out = append(out, e)
	}
	models.EnforcePrimary(out)
	return out, nil
}

// Phones is the phone-number counterpart of Emails.
func Phones(raw any) ([]models.PhoneNumber, error) {
	items, err := list(raw)
	if err != nil {
		return nil, err
	}
	out := make([]models.PhoneNumber, 0, len(items))
	for _, it := range items {
		var p models.PhoneNumber
		switch tv := it.(type) {
		case string:
			p.PhoneNumber = tv
		case map[string]any:
			p.PhoneNumber = str(tv["phoneNumber"])
			p.Location = str(tv["location"])
			p.IsPrimary = truthy(tv["isPrimary"])
		case models.PhoneNumber:
			p = tv
		default:
			return nil, fmt.Errorf("%w: phone entry %T", ErrInvalidShape, it)
		}
		p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
		if p.PhoneNumber == "" {
			continue
		}
		out = append(out, p)
	}
	models.EnforcePrimary(out)
	return out, nil
}

// FoldLegacyRefs copies a deprecated single reference into its array when
// the array was not submitted. refs maps legacy field to array field,
// e.g. "group" -> "groups".
func FoldLegacyRefs(body map[string]any, refs map[string]string) {
	for field, array := range refs {
		v, ok := body[field]
		if !ok || v == nil || v == "" {
			continue
		}
		if _, present := body[array]; present {
			continue
		}
		body[array] = []any{v}
	}
}

func list(raw any) ([]any, error) {
	switch tv := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []any{tv}, nil
	case []any:
		return tv, nil
	case []string:
		out := make([]any, len(tv))
		for i := range tv {
			out[i] = tv[i]
		}
		return out, nil
	case []models.Email:
		out := make([]any, len(tv))
		for i := range tv {
			out[i] = tv[i]
		}
		return out, nil
	case []models.PhoneNumber:
		out := make([]any, len(tv))
		for i := range tv {
			out[i] = tv[i]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected an array, got %T", ErrInvalidShape, raw)
}

func str(v any) string {
	switch tv := v.(type) {
	case string:
		return strings.TrimSpace(tv)
	case float64:
		return strings.TrimSpace(fmt.Sprint(tv))
	}
	return ""
}

// truthy accepts booleans and the strings "true"/"on" sent by form posts.
func truthy(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		s := strings.ToLower(strings.TrimSpace(tv))
		return s == "true" || s == "on"
	}
	return false
}
