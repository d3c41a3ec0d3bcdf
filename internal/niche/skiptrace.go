package niche

import (
	"strings"
	"time"

	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/normalize"
	"github.com/rva-directmail/internal/property"
)

// SkipTraceRow is one row from a skip-trace vendor file. The vendor
// returns a "golden" mailing address plus dated distress events found
// during the trace; a present date means the event is real.
type SkipTraceRow struct {
	ParcelID string // vendor column "Property APN"
	FIPS     string // vendor column "Property FIPS"
	Street   string
	City     string

	GoldenStreet string
	GoldenCity   string
	GoldenState  string
	GoldenZip    string

	Deceased    bool
	Bankruptcy  *time.Time
	Foreclosure *time.Time
	Lien        *time.Time
	Judgment    *time.Time
	Quitclaim   *time.Time
}

// SkipTraceStats reports what one skip-trace pass matched.
type SkipTraceStats struct {
	Rows             int
	SkippedFIPS      int
	MatchedByParcel  int
	MatchedByAddress int
	Flagged          int
}

// flags derives the ST indicator set from the row's dated events.
func (s *SkipTraceRow) flags() property.SkipTrace {
	return property.SkipTrace{
		Bankruptcy:  s.Bankruptcy != nil,
		Foreclosure: s.Foreclosure != nil,
		Lien:        s.Lien != nil,
		Judgment:    s.Judgment != nil,
		Quitclaim:   s.Quitclaim != nil,
		Deceased:    s.Deceased,
	}
}

// ApplySkipTrace folds skip-trace results into the primary set using the
// same hybrid matching as niche merges: parcel+FIPS first, then the
// city-qualified address key. Rows from other regions' FIPS codes are
// skipped, not errors; the vendor ships one statewide file.
func (e *Engine) ApplySkipTrace(rows []*SkipTraceRow) SkipTraceStats {
	stats := SkipTraceStats{Rows: len(rows)}

	for _, row := range rows {
		if row.FIPS != "" && row.FIPS != e.regionFIPS {
			stats.SkippedFIPS++
			continue
		}

		matches, viaParcel := e.matchSkipTrace(row)
		if len(matches) == 0 {
			continue
		}
		if viaParcel {
			stats.MatchedByParcel++
		} else {
			stats.MatchedByAddress++
		}

		for _, r := range matches {
			if e.applySkipTraceRow(r, row) {
				stats.Flagged++
			}
		}
	}

	debug.Printf("skip trace: %d parcel matches, %d address matches, %d skipped by fips",
		stats.MatchedByParcel, stats.MatchedByAddress, stats.SkippedFIPS)
	return stats
}

func (e *Engine) matchSkipTrace(row *SkipTraceRow) ([]*property.Record, bool) {
	if row.ParcelID != "" {
		key := row.ParcelID + "|" + e.regionFIPS
		if rs := e.byParcel[key]; len(rs) > 0 {
			return rs, true
		}
	}
	if key := normalize.AddressCityKey(row.Street, row.City); strings.Contains(key, "|") {
		if rs := e.byAddressCity[key]; len(rs) > 0 {
			return rs, false
		}
	}
	if key := normalize.Address(row.Street); key != "" {
		if rs := e.byAddress[key]; len(rs) > 0 {
			return rs, false
		}
	}
	return nil, false
}

// applySkipTraceRow writes the golden address and ST flags onto one
// matched record. Reports whether any flag is set on the row.
func (e *Engine) applySkipTraceRow(r *property.Record, row *SkipTraceRow) bool {
	st := row.flags()
	st.GoldenStreet = row.GoldenStreet
	st.GoldenCity = row.GoldenCity
	st.GoldenState = row.GoldenState
	st.GoldenZip = row.GoldenZip
	if row.GoldenStreet != "" {
		st.GoldenAddressDiffers =
			normalize.Address(row.GoldenStreet) != normalize.Address(r.MailingStreet)
	}

	merged := r.Skip
	merged.Bankruptcy = merged.Bankruptcy || st.Bankruptcy
	merged.Foreclosure = merged.Foreclosure || st.Foreclosure
	merged.Lien = merged.Lien || st.Lien
	merged.Judgment = merged.Judgment || st.Judgment
	merged.Quitclaim = merged.Quitclaim || st.Quitclaim
	merged.Deceased = merged.Deceased || st.Deceased
	if st.GoldenStreet != "" {
		merged.GoldenStreet = st.GoldenStreet
		merged.GoldenCity = st.GoldenCity
		merged.GoldenState = st.GoldenState
		merged.GoldenZip = st.GoldenZip
		merged.GoldenAddressDiffers = st.GoldenAddressDiffers
	}
	r.Skip = merged

	return len(st.FlagCodes()) > 0
}
