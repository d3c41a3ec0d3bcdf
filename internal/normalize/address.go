// Package normalize holds the address and name normalization primitives
// shared by the classifier and the niche merge engine. Matching between
// datasets happens on these normalized forms, so both sides of every
// comparison must pass through the same functions.
package normalize

import (
	"strings"
	"unicode"
)

// Address normalizes a street address line for matching: upper-case,
// punctuation replaced with spaces, whitespace collapsed to single spaces.
// An empty or missing value normalizes to "".
func Address(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToUpper(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// City normalizes a city name for matching: upper-case, periods removed,
// whitespace collapsed.
func City(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// AddressCityKey builds the compound match key used when the candidate pool
// can span municipalities. Same-named streets exist in neighboring cities,
// so address-only keys are unsafe there. Falls back to the address-only key
// when no city is available.
func AddressCityKey(address, city string) string {
	addr := Address(address)
	cty := City(city)

	switch {
	case addr != "" && cty != "":
		return addr + "|" + cty
	case addr != "":
		return addr
	default:
		return ""
	}
}

// Usable reports whether an address is structurally fit for matching. A
// usable situs address starts with a street number; descriptive entries
// ("LOT 4 BLOCK C", "REAR OF PARCEL") and blanks cannot be matched against
// the primary set and are excluded with an audit count by the caller.
func Usable(raw string) bool {
	norm := Address(raw)
	if norm == "" {
		return false
	}
	first := strings.Fields(norm)[0]
	return first != "" && first[0] >= '0' && first[0] <= '9'
}

// FirstToken returns the first whitespace-delimited token of a name,
// lower-cased. Used for the owner/grantor surname comparison.
func FirstToken(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
