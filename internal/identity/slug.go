// Package identity produces the stable identity keys that link pipeline
// output to the records already persisted in the direct-mail database.
//
// The owner slug formula is an external contract: the database side
// recomputes the identical formula when matching monthly uploads, so any
// change here silently fragments existing owner identities. Treat the
// formula as versioned and locked by the golden vectors in slug_test.go.
package identity

import (
	"strings"
	"unicode"
)

// SlugVersion identifies the owner slug formula. Bump only in lockstep with
// the database-side recomputation.
const SlugVersion = 1

// OwnerSlug derives the canonical owner identity string from the mailing
// street line and zip code: trim surrounding whitespace, strip periods and
// commas, upper-case, then title-case each token of the joined STREET_ZIP
// string. Missing inputs are treated as empty strings.
//
//	OwnerSlug(" 123 Main St. ", "24016,") == "123_Main_St_24016"
func OwnerSlug(street, zip string) string {
	street = stripPunctuation(strings.TrimSpace(street))
	zip = stripPunctuation(strings.TrimSpace(zip))

	joined := strings.ToUpper(strings.TrimSpace(street + " " + zip))
	if joined == "" {
		return ""
	}

	tokens := strings.Fields(joined)
	for i, tok := range tokens {
		tokens[i] = titleToken(tok)
	}
	return strings.Join(tokens, "_")
}

// Location identifies a single parcel: the source-provided parcel/APN string
// plus the region FIPS code. Both are carried through untransformed to stay
// compatible with the external systems that supplied them.
type Location struct {
	ParcelID string
	FIPS     string
}

// Key returns the composite lookup key for this location. Empty when the
// parcel identifier is missing, so callers fall back to address matching.
func (l Location) Key() string {
	if strings.TrimSpace(l.ParcelID) == "" {
		return ""
	}
	return l.ParcelID + "|" + l.FIPS
}

// stripPunctuation removes the period and comma characters the slug formula
// excludes. Other punctuation passes through untouched; the database side
// removes exactly this set and no more.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '.' || r == ',' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// titleToken upper-cases the first letter of a token and lower-cases every
// letter after it. Digits pass through, so "123" stays "123" and "2A"
// stays "2A".
func titleToken(tok string) string {
	runes := []rune(tok)
	seenLetter := false
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			continue
		}
		if !seenLetter {
			runes[i] = unicode.ToUpper(r)
			seenLetter = true
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}
