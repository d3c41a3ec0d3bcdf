package niche

import (
	"strings"

	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/distress"
	"github.com/rva-directmail/internal/identity"
	"github.com/rva-directmail/internal/priority"
	"github.com/rva-directmail/internal/property"
)

// Stats reports what one dataset merge did. ExcludedAddresses is the
// audit count the error policy requires: unusable niche rows are never
// lost without a number attached.
type Stats struct {
	Dataset           string
	Rows              int
	MatchedByParcel   int
	MatchedByAddress  int
	Updated           int
	Inserted          int
	ExcludedAddresses int
}

// Engine matches niche rows against the primary record set. Build one per
// region run; the indexes hold pointers into the caller's record slice, so
// updates apply in place.
type Engine struct {
	regionFIPS string

	byParcel      map[string][]*property.Record
	byAddressCity map[string][]*property.Record
	byAddress     map[string][]*property.Record

	records []*property.Record
}

// NewEngine indexes the primary set for matching. The address-only index
// exists as a fallback for rows with no city; the city-qualified key is
// preferred because same-named streets recur across municipalities.
func NewEngine(regionFIPS string, records []*property.Record) *Engine {
	e := &Engine{
		regionFIPS:    regionFIPS,
		byParcel:      make(map[string][]*property.Record),
		byAddressCity: make(map[string][]*property.Record),
		byAddress:     make(map[string][]*property.Record),
		records:       records,
	}
	for _, r := range records {
		e.index(r)
	}
	return e
}

func (e *Engine) index(r *property.Record) {
	if key := r.Location.Key(); key != "" {
		e.byParcel[key] = append(e.byParcel[key], r)
	}
	if key := r.AddressCityKey(); key != "" {
		e.byAddressCity[key] = append(e.byAddressCity[key], r)
	}
	if key := r.AddressKey(); key != "" {
		e.byAddress[key] = append(e.byAddress[key], r)
	}
}

// Records returns the primary set including any records inserted by merges.
func (e *Engine) Records() []*property.Record {
	return e.records
}

// Merge folds one niche dataset into the primary set. Matched rows
// enhance the existing records (UPDATE); unmatched rows with a usable
// address are promoted to standalone records (INSERT). Matching is
// many-to-one: every primary record sharing the matched key is enhanced.
func (e *Engine) Merge(nicheType string, rows []*property.NicheRecord) Stats {
	stats := Stats{Dataset: nicheType, Rows: len(rows)}

	for _, row := range rows {
		matches, viaParcel := e.match(row)
		if len(matches) > 0 {
			if viaParcel {
				stats.MatchedByParcel++
			} else {
				stats.MatchedByAddress++
			}
			for _, r := range matches {
				if e.enhance(r, nicheType) {
					stats.Updated++
				}
			}
			continue
		}

		if !row.UsableAddress() {
			stats.ExcludedAddresses++
			debug.Printf("niche %s: excluding unusable address %q", nicheType, row.Street)
			continue
		}

		promoted := e.promote(row, nicheType)
		e.records = append(e.records, promoted)
		e.index(promoted)
		stats.Inserted++
	}

	return stats
}

// match resolves a niche row to primary records: parcel+FIPS fast path
// first, then the city-qualified address key, then address only. Rows
// without a FIPS column assume the region's; the primary index always
// carries it.
func (e *Engine) match(row *property.NicheRecord) ([]*property.Record, bool) {
	if row.ParcelID != "" && (row.FIPS == "" || row.FIPS == e.regionFIPS) {
		key := identity.Location{ParcelID: row.ParcelID, FIPS: e.regionFIPS}.Key()
		if rs := e.byParcel[key]; len(rs) > 0 {
			return rs, true
		}
	}
	if key := row.AddressCityKey(); strings.Contains(key, "|") {
		if rs := e.byAddressCity[key]; len(rs) > 0 {
			return rs, false
		}
	}
	if key := row.AddressKey(); key != "" {
		if rs := e.byAddress[key]; len(rs) > 0 {
			return rs, false
		}
	}
	return nil, false
}

// enhance applies the dataset's prefixes and flags to a matched record.
// Reports whether the record's compound code actually changed, so the
// update count stays accurate across repeated passes.
func (e *Engine) enhance(r *property.Record, nicheType string) bool {
	before := r.Code.String()

	r.Flags = applyFlag(r.Flags, nicheType)
	for _, p := range prefixesFor(nicheType) {
		if p == r.Code.Base() {
			// A promoted record already carries this label as its base.
			continue
		}
		r.Code = r.Code.WithPrefix(p)
	}
	r.Touch(nicheType)

	return r.Code.String() != before
}

// promote builds a standalone record from an unmatched niche row. The
// niche label becomes the base code and the record carries the
// niche-only priority id so mailing exports can segregate it. Mailing
// fields fall back to the situs address so the owner key is never empty
// when the row has a usable address.
func (e *Engine) promote(row *property.NicheRecord, nicheType string) *property.Record {
	loc := row.Location()
	if loc.FIPS == "" {
		loc.FIPS = e.regionFIPS
	}
	mailStreet := row.Extra["Mailing Address"]
	mailZip := row.Extra["Mailing Zip"]
	if mailStreet == "" {
		mailStreet, mailZip = row.Street, row.Zip
	}
	r := &property.Record{
		Location:       loc,
		OwnerKey:       identity.OwnerSlug(mailStreet, mailZip),
		OwnerName:      row.OwnerName,
		PropertyStreet: row.Street,
		PropertyCity:   row.City,
		PropertyZip:    row.Zip,
		MailingStreet:  mailStreet,
		MailingZip:     mailZip,
		SaleDate:       priority.VeryOldDate,
		NicheOnly:      true,
	}
	r.Priority = priority.Assignment{
		ID:   priority.NicheOnlyID,
		Code: nicheType,
		Name: nicheType + " List Only",
		Rule: "niche insert",
	}
	r.Flags = applyFlag(r.Flags, nicheType)
	r.Code = distress.NewCode(nicheType)
	r.Touch(nicheType)
	return r
}
