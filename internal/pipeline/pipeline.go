// Package pipeline orchestrates one region's processing run: identity,
// classification, scoring, distress enhancement, niche merging, skip
// trace, and upsert planning. The whole run is deterministic given the
// same inputs, configuration, and reference time; all I/O stays at the
// edges with the callers.
package pipeline

import (
	"time"

	"github.com/rva-directmail/internal/audit"
	"github.com/rva-directmail/internal/classify"
	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/distress"
	"github.com/rva-directmail/internal/identity"
	"github.com/rva-directmail/internal/niche"
	"github.com/rva-directmail/internal/priority"
	"github.com/rva-directmail/internal/property"
	"github.com/rva-directmail/internal/region"
	"github.com/rva-directmail/internal/upsert"
)

// Dataset pairs a detected niche type with its rows. Datasets merge in
// slice order; order only affects audit counts, never final codes.
type Dataset struct {
	Type string
	Rows []*property.NicheRecord
}

// Input collects everything one region run consumes.
type Input struct {
	Records     []*property.Record
	RecentSales []*property.Record
	Niches      []Dataset
	SkipTrace   []*niche.SkipTraceRow

	// Existing maps location key to the store's persisted state. Leave nil
	// on a first run; every record then inserts.
	Existing map[string]upsert.Existing
}

// Result is the run's complete output.
type Result struct {
	Records    []*property.Record
	Plan       upsert.Plan
	NicheStats []niche.Stats
	Counts     audit.Counts
}

// Runner holds the per-region collaborators. Build one per region run;
// independent regions get independent runners and share nothing.
type Runner struct {
	cfg        region.Config
	now        time.Time
	classifier *classify.Classifier
	scorer     *priority.Scorer
}

// NewRunner wires a runner for one region with the default keyword sets.
func NewRunner(cfg region.Config, now time.Time) *Runner {
	return NewRunnerWithKeywords(cfg, now, classify.DefaultKeywords())
}

// NewRunnerWithKeywords wires a runner with region-specific keyword
// overrides.
func NewRunnerWithKeywords(cfg region.Config, now time.Time, kw classify.Keywords) *Runner {
	return &Runner{
		cfg:        cfg,
		now:        now,
		classifier: classify.NewClassifier(kw),
		scorer:     priority.NewScorer(cfg, now),
	}
}

// Run executes the full pipeline over the input.
func (rn *Runner) Run(in Input) Result {
	defer debug.Timing("pipeline run " + rn.cfg.Key)()

	records, added := niche.AppendUnique(in.Records, in.RecentSales)

	for _, r := range records {
		rn.prepare(r)
	}

	engine := niche.NewEngine(rn.cfg.FIPS, records)

	var result Result
	for _, ds := range in.Niches {
		stats := engine.Merge(ds.Type, ds.Rows)
		result.NicheStats = append(result.NicheStats, stats)
		result.Counts.NicheUpdates += stats.Updated
		result.Counts.NicheInserts += stats.Inserted
		result.Counts.ExcludedAddresses += stats.ExcludedAddresses
	}

	if len(in.SkipTrace) > 0 {
		st := engine.ApplySkipTrace(in.SkipTrace)
		result.Counts.SkipTraceMatches = st.MatchedByParcel + st.MatchedByAddress
	}

	result.Records = engine.Records()
	result.Counts.Processed = len(result.Records)
	result.Counts.RecentSalesAdded = added

	rn.carryPriorPrefixes(result.Records, in.Existing)

	planner := upsert.NewPlanner(rn.cfg.UpdateWindowMonths, rn.now)
	result.Plan = planner.Build(result.Records, in.Existing)
	result.Counts.Inserts = len(result.Plan.Inserts)
	result.Counts.Updates = len(result.Plan.Updates)
	result.Counts.Frozen = result.Plan.Frozen

	result.Counts.ByPriority = make(map[string]int)
	for _, r := range result.Records {
		result.Counts.ByPriority[r.CompoundCode()]++
	}

	return result
}

// carryPriorPrefixes folds distress prefixes from each record's persisted
// compound code into this run's result. A month without a liens file must
// not strip the Liens prefix a previous month attached; the base code is
// still this run's rescored one.
func (rn *Runner) carryPriorPrefixes(records []*property.Record, existing map[string]upsert.Existing) {
	if len(existing) == 0 {
		return
	}
	for _, r := range records {
		key := r.Location.Key()
		if key == "" {
			continue
		}
		prior, ok := existing[key]
		if !ok || prior.CompoundCode == "" {
			continue
		}
		for _, p := range distress.Parse(prior.CompoundCode).Prefixes() {
			if p == r.Code.Base() {
				continue
			}
			r.Code = r.Code.WithPrefix(p)
		}
	}
}

// prepare derives everything a primary record needs before niche merging:
// identity keys, parsed fields, classification, base code, and the
// distress-enhanced compound code.
func (rn *Runner) prepare(r *property.Record) {
	r.OwnerKey = identity.OwnerSlug(r.MailingStreet, r.MailingZip)
	if r.Location.FIPS == "" {
		r.Location.FIPS = rn.cfg.FIPS
	}

	if r.SaleDate.IsZero() {
		r.SaleDate = priority.ParseSaleDate(r.RawSaleDate, rn.now)
	}
	if r.SaleAmount == nil {
		r.SaleAmount = priority.ParseSaleAmount(r.RawSaleAmount)
	}

	r.Class = rn.classifier.ClassifyName(r.OwnerName)
	r.Class.IsOwnerOccupied = classify.OwnerOccupied(r.PropertyStreet, r.MailingStreet)
	r.Class.OwnerGrantorMatch = rn.classifier.GrantorMatch(r.OwnerName, r.GrantorName)

	r.Priority = rn.scorer.Score(priority.Subject{
		Class:      r.Class,
		SaleDate:   r.SaleDate,
		SaleAmount: r.SaleAmount,
		CashBuyer:  r.CashBuyer,
	})

	r.Code = r.Flags.Apply(distress.NewCode(r.Priority.Code))
}
