// Package upsert decides which processed records become inserts and which
// become updates against the external store.
package upsert

import (
	"time"

	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/property"
)

// Existing describes what the store already holds for a location: when
// the persisted record was last inserted or updated, and the compound
// code it carries. The code rides along so reprocessing can fold prior
// distress prefixes into this run's result instead of overwriting them.
type Existing struct {
	LocationKey  string
	LastTouched  time.Time
	CompoundCode string
}

// Plan is the instruction set the store consumes. Inserts are identified
// by owner key, updates by location key.
type Plan struct {
	Inserts []*property.Record
	Updates []*property.Record

	// Frozen counts records that matched a persisted row whose last touch
	// fell outside the update window. They are reprocessed but not emitted.
	Frozen int

	// Unkeyed counts records with no location key; they can only insert.
	Unkeyed int
}

// Planner applies the recency-window rule. The window bounds the blast
// radius of monthly reprocessing: widening it rewrites old records,
// narrowing it stops active records from refreshing. Keep it exact.
type Planner struct {
	cutoff time.Time
}

// NewPlanner builds a planner for one run. windowMonths comes from the
// region configuration (default six).
func NewPlanner(windowMonths int, now time.Time) *Planner {
	return &Planner{cutoff: now.AddDate(0, -windowMonths, 0)}
}

// Eligible reports whether a persisted record may still be updated.
func (p *Planner) Eligible(lastTouched time.Time) bool {
	return !lastTouched.Before(p.cutoff)
}

// Build splits the processed records into inserts and updates. existing
// maps location key to the store's persisted state; identities absent
// from it always insert, regardless of window.
func (p *Planner) Build(records []*property.Record, existing map[string]Existing) Plan {
	var plan Plan

	for _, r := range records {
		key := r.Location.Key()
		if key == "" {
			plan.Unkeyed++
			plan.Inserts = append(plan.Inserts, r)
			continue
		}

		prior, ok := existing[key]
		if !ok {
			plan.Inserts = append(plan.Inserts, r)
			continue
		}
		if !p.Eligible(prior.LastTouched) {
			plan.Frozen++
			debug.Printf("upsert: freezing %s (last touched %s)",
				key, prior.LastTouched.Format("2006-01-02"))
			continue
		}
		plan.Updates = append(plan.Updates, r)
	}

	return plan
}
