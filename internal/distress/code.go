// Package distress folds distress indicators into compound priority codes.
// A compound code is an ordered list of prefix tokens in front of one base
// priority code, e.g. "HE-Liens-ABS1". The prefix list is modelled as an
// ordered set so the no-duplicate invariant holds structurally instead of
// by string containment checks.
package distress

import (
	"strings"

	"github.com/rva-directmail/internal/priority"
)

// Prefix tokens in their canonical order. The persisted codes in the legacy
// database use these exact spellings, except "Bankrupcy", which was
// misspelled there; Parse folds that alias into the current token.
const (
	PrefixHighEquity   = "HE"
	PrefixLiens        = "Liens"
	PrefixBankruptcy   = "Bankruptcy"
	PrefixDivorce      = "Divorce"
	PrefixPreFor       = "PreFor"
	PrefixFreeAndClear = "F&C"
	PrefixVacant       = "Vacant"
	PrefixNCOAMoves    = "NCOA_Moves"
	PrefixNCOADrops    = "NCOA_Drops"
)

// PrefixOrder is the fixed application order. Flags are folded in so the
// final prefix sequence always follows this order no matter which monthly
// pass contributed each one.
var PrefixOrder = []string{
	PrefixHighEquity,
	PrefixLiens,
	PrefixBankruptcy,
	PrefixDivorce,
	PrefixPreFor,
	PrefixFreeAndClear,
	PrefixVacant,
	PrefixNCOAMoves,
	PrefixNCOADrops,
}

// legacyPrefixAliases maps prefix spellings still present in persisted
// codes to their current tokens. Without this, a re-run over a record
// carrying the old spelling would stack both forms.
var legacyPrefixAliases = map[string]string{
	"Bankrupcy": PrefixBankruptcy,
}

var prefixRank = func() map[string]int {
	m := make(map[string]int, len(PrefixOrder))
	for i, p := range PrefixOrder {
		m[p] = i
	}
	return m
}()

// IsPrefix reports whether a token is one of the known distress prefixes.
func IsPrefix(token string) bool {
	_, ok := prefixRank[token]
	return ok
}

// Code is a compound priority code: zero or more distress prefixes over a
// base code. The zero value is not valid; build one with NewCode or Parse.
type Code struct {
	prefixes []string
	base     string
}

// NewCode wraps a bare base priority code with no prefixes.
func NewCode(base string) Code {
	return Code{base: base}
}

// Parse splits a persisted compound code back into prefixes and base. The
// base code is always the final hyphen-separated token; every token before
// it is treated as a prefix. Unknown prefix tokens are kept in place so a
// round trip never loses data, but they sort after the known ones.
//
// "F&C" contains no hyphen, and neither does any base code, so splitting
// on "-" is unambiguous.
func Parse(compound string) Code {
	compound = strings.TrimSpace(compound)
	if compound == "" {
		return Code{base: priority.CodeDefault}
	}
	tokens := strings.Split(compound, "-")
	base := tokens[len(tokens)-1]
	prefixes := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		if alias, ok := legacyPrefixAliases[tok]; ok {
			tok = alias
		}
		prefixes = append(prefixes, tok)
	}
	return Code{prefixes: prefixes, base: base}
}

// Base returns the base priority code.
func (c Code) Base() string { return c.base }

// Prefixes returns a copy of the prefix tokens in order.
func (c Code) Prefixes() []string {
	return append([]string(nil), c.prefixes...)
}

// HasPrefix reports whether the prefix token is already present.
func (c Code) HasPrefix(token string) bool {
	for _, p := range c.prefixes {
		if p == token {
			return true
		}
	}
	return false
}

// WithPrefix returns a code with the prefix added at its canonical
// position. Adding a prefix that is already present is a no-op, which is
// what makes repeated monthly passes idempotent.
func (c Code) WithPrefix(token string) Code {
	if c.HasPrefix(token) {
		return c
	}
	merged := make([]string, 0, len(c.prefixes)+1)
	inserted := false
	for _, p := range c.prefixes {
		if !inserted && rankOf(token) < rankOf(p) {
			merged = append(merged, token)
			inserted = true
		}
		merged = append(merged, p)
	}
	if !inserted {
		merged = append(merged, token)
	}
	return Code{prefixes: merged, base: c.base}
}

// WithBase returns a code with the same prefixes over a new base. Used when
// a monthly rescore changes a record's base priority without discarding the
// distress history already attached to it.
func (c Code) WithBase(base string) Code {
	return Code{prefixes: c.Prefixes(), base: base}
}

// String renders the compound code in its persisted form.
func (c Code) String() string {
	if len(c.prefixes) == 0 {
		return c.base
	}
	return strings.Join(c.prefixes, "-") + "-" + c.base
}

func rankOf(token string) int {
	if r, ok := prefixRank[token]; ok {
		return r
	}
	return len(PrefixOrder)
}
