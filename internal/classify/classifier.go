// Package classify derives the boolean owner tags (trust, church,
// business, owner-occupied, grantor match) that drive priority scoring.
// The classifier is pure: same inputs, same tags, no side effects, and it
// never fails — empty or garbage input just yields all-false tags.
package classify

import (
	"strings"

	"github.com/rva-directmail/internal/normalize"
)

// Classification holds the derived owner tags for one property record.
type Classification struct {
	IsTrust           bool
	IsChurch          bool
	IsBusiness        bool
	IsOwnerOccupied   bool
	OwnerGrantorMatch bool
}

// Classifier evaluates owner-name keyword rules.
type Classifier struct {
	kw Keywords
}

// NewClassifier creates a classifier with the given keyword configuration.
func NewClassifier(kw Keywords) *Classifier {
	return &Classifier{kw: kw}
}

// ClassifyName derives the trust/church/business tags from an owner name.
// Trust and church are evaluated independently; business is only checked
// when the name is not a church, and a trust whose name carries "the" as a
// separate token counts as a business ("The Smith Family Trust" is a legal
// entity for mailing-name purposes, not an individual).
func (c *Classifier) ClassifyName(ownerName string) Classification {
	name := strings.ToLower(strings.TrimSpace(ownerName))

	var cl Classification
	if name == "" {
		return cl
	}

	cl.IsTrust = containsAny(name, c.kw.Trust)
	cl.IsChurch = containsAny(name, c.kw.Church) || hasSuffixAny(name, c.kw.ChurchEndings)

	if !cl.IsChurch {
		cl.IsBusiness = containsAny(name, c.kw.Business) ||
			hasSuffixAny(name, c.kw.BusinessEndings) ||
			(cl.IsTrust && hasToken(name, "the"))
	}

	return cl
}

// GrantorMatch reports whether the owner and the last-sale grantor share a
// first token (case-insensitive) while the full names differ. A shared
// surname with a different full name signals an intra-family transfer.
func (c *Classifier) GrantorMatch(ownerName, grantorName string) bool {
	owner := strings.ToLower(strings.TrimSpace(ownerName))
	grantor := strings.ToLower(strings.TrimSpace(grantorName))
	if owner == "" || grantor == "" {
		return false
	}

	ownerFirst := normalize.FirstToken(owner)
	grantorFirst := normalize.FirstToken(grantor)
	if ownerFirst == "" || grantorFirst == "" {
		return false
	}

	return ownerFirst == grantorFirst && owner != grantor
}

// OwnerOccupied reports whether the owner's mailing address matches the
// property address after normalization. PO Box mailing addresses never
// count as owner-occupied.
func OwnerOccupied(propertyAddr, mailingAddr string) bool {
	prop := normalize.Address(propertyAddr)
	mail := normalize.Address(mailingAddr)

	if prop == "" || mail == "" {
		return false
	}
	if strings.HasPrefix(mail, "PO ") || strings.HasPrefix(mail, "P O ") {
		return false
	}

	return prop == mail
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func hasSuffixAny(name string, endings []string) bool {
	for _, end := range endings {
		if strings.HasSuffix(name, end) {
			return true
		}
	}
	return false
}

func hasToken(name, token string) bool {
	for _, f := range strings.Fields(name) {
		if f == token {
			return true
		}
	}
	return false
}
