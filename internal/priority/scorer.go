// Package priority assigns the 13 mutually exclusive base priority codes.
// The rules form an ordered cascade evaluated top to bottom with
// first-match-wins; the ordering is the single source of truth for
// tie-breaking, so the rule list below is data, not scattered branches.
package priority

import (
	"time"

	"github.com/rva-directmail/internal/classify"
	"github.com/rva-directmail/internal/region"
)

// Subject carries the already-parsed inputs the cascade evaluates for one
// record.
type Subject struct {
	Class      classify.Classification
	SaleDate   time.Time // parsed; VeryOldDate when missing or malformed
	SaleAmount *float64  // nil when missing or malformed
	CashBuyer  bool
}

// Assignment is the scoring result: exactly one per record, never empty.
type Assignment struct {
	ID   int
	Code string
	Name string
	Rule string // name of the cascade rule that fired, for audit output
}

// ownerOccupantVeryOldYears is the fixed lookback for the OWN20 list. It
// is not region-tunable; every market mails 20-year holds.
const ownerOccupantVeryOldYears = 20

type rule struct {
	name  string
	code  string
	match func(Subject) bool
}

// Scorer evaluates the cascade against one region's thresholds. The
// reference time is injected so that a re-run over unchanged data and
// configuration reproduces the same codes.
type Scorer struct {
	rules []rule
}

// NewScorer builds the cascade for a region. Threshold validation already
// happened when the region config loaded.
func NewScorer(cfg region.Config, now time.Time) *Scorer {
	veryOldCutoff := now.AddDate(-ownerOccupantVeryOldYears, 0, 0)
	midCutoff := now.AddDate(-cfg.MidSaleYears, 0, 0)

	atOrBefore := func(t, cutoff time.Time) bool { return !t.After(cutoff) }
	atOrAfter := func(t, cutoff time.Time) bool { return !t.Before(cutoff) }
	lowAmount := func(a *float64) bool { return a == nil || *a <= cfg.LowAmount }
	highAmount := func(a *float64) bool { return a != nil && *a >= cfg.HighAmount }

	return &Scorer{rules: []rule{
		{
			name: "trust", code: CodeTRS2,
			match: func(s Subject) bool { return s.Class.IsTrust },
		},
		{
			name: "church", code: CodeCHU1,
			match: func(s Subject) bool { return s.Class.IsChurch },
		},
		{
			name: "owner-occupant grantor match", code: CodeOIN1,
			match: func(s Subject) bool { return s.Class.IsOwnerOccupied && s.Class.OwnerGrantorMatch },
		},
		{
			name: "absentee grantor match", code: CodeINH1,
			match: func(s Subject) bool { return !s.Class.IsOwnerOccupied && s.Class.OwnerGrantorMatch },
		},
		{
			name: "absentee old sale", code: CodeABS1,
			match: func(s Subject) bool {
				return !s.Class.IsOwnerOccupied && atOrBefore(s.SaleDate, cfg.OldSaleCutoff)
			},
		},
		{
			name: "absentee low amount", code: CodeTRS1,
			match: func(s Subject) bool {
				return !s.Class.IsOwnerOccupied && lowAmount(s.SaleAmount)
			},
		},
		{
			name: "owner-occupant 20-year hold", code: CodeOWN20,
			match: func(s Subject) bool {
				return s.Class.IsOwnerOccupied && atOrBefore(s.SaleDate, veryOldCutoff)
			},
		},
		{
			name: "owner-occupant old sale", code: CodeOWN1,
			match: func(s Subject) bool {
				return s.Class.IsOwnerOccupied && atOrBefore(s.SaleDate, midCutoff)
			},
		},
		{
			name: "owner-occupant low amount", code: CodeOON1,
			match: func(s Subject) bool {
				return s.Class.IsOwnerOccupied && lowAmount(s.SaleAmount)
			},
		},
		{
			name: "absentee recent high-value buyer", code: CodeBUY1,
			match: func(s Subject) bool {
				return !s.Class.IsOwnerOccupied && highAmount(s.SaleAmount) &&
					atOrAfter(s.SaleDate, cfg.RecentBuyerCutoff)
			},
		},
		{
			name: "owner-occupant recent high-value cash buyer", code: CodeBUY1,
			match: func(s Subject) bool {
				return s.Class.IsOwnerOccupied && s.CashBuyer && highAmount(s.SaleAmount) &&
					atOrAfter(s.SaleDate, cfg.RecentBuyerCutoff)
			},
		},
		{
			name: "owner-occupant recent high-value buyer", code: CodeBUY2,
			match: func(s Subject) bool {
				return s.Class.IsOwnerOccupied && highAmount(s.SaleAmount) &&
					atOrAfter(s.SaleDate, cfg.RecentBuyerCutoff)
			},
		},
	}}
}

// Score runs the cascade and returns the first matching code, falling back
// to DEFAULT. Every record gets exactly one assignment.
func (sc *Scorer) Score(s Subject) Assignment {
	for _, r := range sc.rules {
		if r.match(s) {
			def := Lookup(r.code)
			return Assignment{ID: def.ID, Code: def.Code, Name: def.Name, Rule: r.name}
		}
	}
	def := Lookup(CodeDefault)
	return Assignment{ID: def.ID, Code: def.Code, Name: def.Name, Rule: "default"}
}

// Rules returns the cascade's rule names in evaluation order, for audit
// reporting.
func (sc *Scorer) Rules() []string {
	names := make([]string, len(sc.rules))
	for i, r := range sc.rules {
		names[i] = r.name
	}
	return names
}
