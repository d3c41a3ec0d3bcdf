// Package property defines the record types the pipeline stages share.
package property

import (
	"time"

	"github.com/rva-directmail/internal/classify"
	"github.com/rva-directmail/internal/distress"
	"github.com/rva-directmail/internal/identity"
	"github.com/rva-directmail/internal/normalize"
	"github.com/rva-directmail/internal/priority"
)

// Record is one parcel/owner pairing flowing through a region's run. The
// raw text fields are provenance: they hold whatever the input file said
// and are never rewritten by later stages. Everything else is derived.
type Record struct {
	Location identity.Location
	OwnerKey string

	OwnerName      string
	MailingStreet  string
	MailingCity    string
	MailingZip     string
	PropertyStreet string
	PropertyCity   string
	PropertyZip    string
	GrantorName    string
	RawSaleDate    string
	RawSaleAmount  string

	SaleDate   time.Time
	SaleAmount *float64
	CashBuyer  bool

	Class    classify.Classification
	Priority priority.Assignment
	Flags    distress.Flags
	Code     distress.Code
	Skip     SkipTrace

	// NicheOnly marks records promoted from a niche dataset with no
	// counterpart in the primary file. They carry priority id 99.
	NicheOnly bool

	// Sources lists the niche dataset labels that touched this record,
	// in merge order, for audit output.
	Sources []string
}

// CompoundCode renders the persisted form of the record's priority code.
func (r *Record) CompoundCode() string {
	return r.Code.String()
}

// AddressKey returns the normalized street-only match key for the
// property address.
func (r *Record) AddressKey() string {
	return normalize.Address(r.PropertyStreet)
}

// AddressCityKey returns the city-qualified match key. Use this whenever
// the candidate pool spans more than one municipality.
func (r *Record) AddressCityKey() string {
	return normalize.AddressCityKey(r.PropertyStreet, r.PropertyCity)
}

// Touch records that a niche dataset contributed to this record. The same
// label is recorded once.
func (r *Record) Touch(label string) {
	for _, s := range r.Sources {
		if s == label {
			return
		}
	}
	r.Sources = append(r.Sources, label)
}

// SkipTrace holds the enrichment a skip-trace vendor file contributes:
// distress indicators found during the trace and the "golden" mailing
// address the vendor considers most current.
type SkipTrace struct {
	Bankruptcy  bool
	Foreclosure bool
	Lien        bool
	Judgment    bool
	Quitclaim   bool
	Deceased    bool

	GoldenStreet         string
	GoldenCity           string
	GoldenState          string
	GoldenZip            string
	GoldenAddressDiffers bool
}

// FlagCodes lists the set ST indicator codes in a fixed order.
func (s SkipTrace) FlagCodes() []string {
	var codes []string
	for _, f := range []struct {
		on   bool
		code string
	}{
		{s.Bankruptcy, "STBankruptcy"},
		{s.Foreclosure, "STForeclosure"},
		{s.Lien, "STLien"},
		{s.Judgment, "STJudgment"},
		{s.Quitclaim, "STQuitclaim"},
		{s.Deceased, "STDeceased"},
	} {
		if f.on {
			codes = append(codes, f.code)
		}
	}
	return codes
}

// NicheRecord is one row from a secondary distress dataset before it is
// linked to a Record. Field names mirror what the vendor files carry;
// Extra holds columns the merge passes through to promoted records.
type NicheRecord struct {
	Dataset   string // detected niche type label, e.g. "Liens"
	OwnerName string
	Street    string
	City      string
	Zip       string
	ParcelID  string
	FIPS      string
	Extra     map[string]string
}

// Location returns the parcel identity when the row carries one.
func (n *NicheRecord) Location() identity.Location {
	return identity.Location{ParcelID: n.ParcelID, FIPS: n.FIPS}
}

// AddressKey returns the normalized street-only match key.
func (n *NicheRecord) AddressKey() string {
	return normalize.Address(n.Street)
}

// AddressCityKey returns the city-qualified match key.
func (n *NicheRecord) AddressCityKey() string {
	return normalize.AddressCityKey(n.Street, n.City)
}

// UsableAddress reports whether the row's street passes the structural
// check for niche matching. Unusable rows are excluded and counted.
func (n *NicheRecord) UsableAddress() bool {
	return normalize.Usable(n.Street)
}
