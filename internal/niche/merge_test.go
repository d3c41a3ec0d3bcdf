package niche

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rva-directmail/internal/distress"
	"github.com/rva-directmail/internal/identity"
	"github.com/rva-directmail/internal/priority"
	"github.com/rva-directmail/internal/property"
)

const testFIPS = "51770"

func primaryRecord(street, city, parcel, baseCode string) *property.Record {
	r := &property.Record{
		Location:       identity.Location{ParcelID: parcel, FIPS: testFIPS},
		PropertyStreet: street,
		PropertyCity:   city,
	}
	r.Code = distress.NewCode(baseCode)
	return r
}

func TestMergeUpdatesByAddress(t *testing.T) {
	rec := primaryRecord("123 Main St", "Roanoke", "", "ABS1")
	e := NewEngine(testFIPS, []*property.Record{rec})

	stats := e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, Street: "123 Main St.", City: "Roanoke"},
	})

	assert.Equal(t, 1, stats.MatchedByAddress)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, "Liens-ABS1", rec.CompoundCode())
	assert.True(t, rec.Flags.Liens)
}

func TestMergeIdempotentAcrossPasses(t *testing.T) {
	rec := primaryRecord("123 Main St", "Roanoke", "", "ABS1")
	e := NewEngine(testFIPS, []*property.Record{rec})

	rows := []*property.NicheRecord{{Dataset: TypeLiens, Street: "123 Main St", City: "Roanoke"}}

	first := e.Merge(TypeLiens, rows)
	second := e.Merge(TypeLiens, rows)

	assert.Equal(t, 1, first.Updated)
	assert.Equal(t, 0, second.Updated, "second pass must not change the code")
	assert.Equal(t, "Liens-ABS1", rec.CompoundCode())
}

func TestMergeParcelFastPath(t *testing.T) {
	// Same street name in two cities; the parcel id must pick the right one.
	a := primaryRecord("400 Oak Ave", "Roanoke", "1234567", "OWN1")
	b := primaryRecord("400 Oak Ave", "Salem", "7654321", "OWN1")
	e := NewEngine(testFIPS, []*property.Record{a, b})

	stats := e.Merge(TypeBankruptcy, []*property.NicheRecord{
		{Dataset: TypeBankruptcy, ParcelID: "7654321", FIPS: testFIPS, Street: "400 Oak Ave", City: "Salem"},
	})

	assert.Equal(t, 1, stats.MatchedByParcel)
	assert.Equal(t, "OWN1", a.CompoundCode())
	assert.Equal(t, "Bankruptcy-OWN1", b.CompoundCode())
}

func TestMergeParcelFastPathWithoutFIPS(t *testing.T) {
	// Vendor files often omit the FIPS column; the row still has to hit
	// the parcel index, which always carries the region's FIPS.
	rec := primaryRecord("400 Oak Ave", "Roanoke", "1234567", "OWN1")
	e := NewEngine(testFIPS, []*property.Record{rec})

	stats := e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, ParcelID: "1234567", Street: "UNKNOWN"},
	})

	assert.Equal(t, 1, stats.MatchedByParcel)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, "Liens-OWN1", rec.CompoundCode())
}

func TestMergeCityQualifiedFallback(t *testing.T) {
	a := primaryRecord("400 Oak Ave", "Roanoke", "", "OWN1")
	b := primaryRecord("400 Oak Ave", "Salem", "", "OWN1")
	e := NewEngine(testFIPS, []*property.Record{a, b})

	e.Merge(TypeVacant, []*property.NicheRecord{
		{Dataset: TypeVacant, Street: "400 Oak Ave", City: "Salem"},
	})

	assert.Equal(t, "OWN1", a.CompoundCode())
	assert.Equal(t, "Vacant-OWN1", b.CompoundCode())
}

func TestMergeManyToOne(t *testing.T) {
	// Two primary records at one address (duplicate parcels) both enhance.
	a := primaryRecord("77 Pine Rd", "Roanoke", "", "ABS1")
	b := primaryRecord("77 Pine Rd", "Roanoke", "", "TRS1")
	e := NewEngine(testFIPS, []*property.Record{a, b})

	stats := e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, Street: "77 Pine Rd", City: "Roanoke"},
	})

	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, "Liens-ABS1", a.CompoundCode())
	assert.Equal(t, "Liens-TRS1", b.CompoundCode())
}

func TestMergeInsertsStandaloneRecord(t *testing.T) {
	e := NewEngine(testFIPS, []*property.Record{
		primaryRecord("123 Main St", "Roanoke", "", "ABS1"),
	})

	stats := e.Merge(TypeProbate, []*property.NicheRecord{
		{Dataset: TypeProbate, Street: "999 Elm St", City: "Roanoke", OwnerName: "Doe John"},
	})

	require.Equal(t, 1, stats.Inserted)
	require.Len(t, e.Records(), 2)

	promoted := e.Records()[1]
	assert.True(t, promoted.NicheOnly)
	assert.Equal(t, priority.NicheOnlyID, promoted.Priority.ID)
	assert.Equal(t, TypeProbate, promoted.Code.Base())
	assert.Equal(t, "Probate List Only", promoted.Priority.Name)
}

func TestMergePromotedRecordIdentity(t *testing.T) {
	e := NewEngine(testFIPS, nil)

	stats := e.Merge(TypeProbate, []*property.NicheRecord{
		{
			Dataset:  TypeProbate,
			ParcelID: "9999999",
			Street:   "999 Elm St",
			City:     "Roanoke",
			Zip:      "24016",
			Extra: map[string]string{
				"Mailing Address": "500 Other Pl",
				"Mailing Zip":     "24018",
			},
		},
		{Dataset: TypeProbate, Street: "12 Cedar Ln", City: "Roanoke", Zip: "24013"},
	})

	require.Equal(t, 2, stats.Inserted)

	// Mailing fields come from the niche row; the region FIPS backfills
	// the location so a later parcel-bearing pass matches instead of
	// promoting a duplicate.
	withMailing := e.Records()[0]
	assert.Equal(t, "9999999|51770", withMailing.Location.Key())
	assert.Equal(t, "500_Other_Pl_24018", withMailing.OwnerKey)
	assert.Equal(t, "24018", withMailing.MailingZip)

	// Without a mailing address the situs address keys the owner.
	situsOnly := e.Records()[1]
	assert.Equal(t, "12_Cedar_Ln_24013", situsOnly.OwnerKey)

	second := e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, ParcelID: "9999999", Street: "UNKNOWN"},
	})
	assert.Equal(t, 1, second.MatchedByParcel)
	assert.Equal(t, 0, second.Inserted)
}

func TestMergePromotedRecordMatchesLaterPasses(t *testing.T) {
	e := NewEngine(testFIPS, nil)

	e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, Street: "999 Elm St", City: "Roanoke"},
	})
	stats := e.Merge(TypeVacant, []*property.NicheRecord{
		{Dataset: TypeVacant, Street: "999 Elm St", City: "Roanoke"},
	})

	assert.Equal(t, 1, stats.MatchedByAddress)
	require.Len(t, e.Records(), 1)
	assert.Equal(t, "Vacant-Liens", e.Records()[0].CompoundCode())
}

func TestMergeExcludesUnusableAddresses(t *testing.T) {
	e := NewEngine(testFIPS, nil)

	stats := e.Merge(TypeLiens, []*property.NicheRecord{
		{Dataset: TypeLiens, Street: ""},
		{Dataset: TypeLiens, Street: "UNKNOWN"},
		{Dataset: TypeLiens, Street: "12 Cedar Ln", City: "Roanoke"},
	})

	assert.Equal(t, 2, stats.ExcludedAddresses)
	assert.Equal(t, 1, stats.Inserted)
	assert.Len(t, e.Records(), 1)
}

func TestMergePreForeclosureContributesLiens(t *testing.T) {
	rec := primaryRecord("123 Main St", "Roanoke", "", "ABS1")
	e := NewEngine(testFIPS, []*property.Record{rec})

	e.Merge(TypePreForeclosure, []*property.NicheRecord{
		{Dataset: TypePreForeclosure, Street: "123 Main St", City: "Roanoke"},
	})

	assert.Equal(t, "Liens-PreFor-ABS1", rec.CompoundCode())
	assert.True(t, rec.Flags.PreFor)
	assert.True(t, rec.Flags.Liens)
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"roanoke_city_va_liens_2026_07.csv", TypeLiens},
		{"PreForeclosure_export.csv", TypePreForeclosure},
		{"bankruptcies_june.csv", TypeBankruptcy},
		{"tired_landlords.csv", TypeLandlord},
		{"roanoke_tax_delinquent.csv", TypeCurrentTax},
		{"vendor_tax_delinq_history.csv", TypeTaxHistory},
		{"probate_filings.csv", TypeProbate},
		{"interfamily_transfers.csv", TypeInterFamily},
		{"cash_buyers_q2.csv", TypeCashBuyer},
		{"vacant_properties.csv", TypeVacant},
		{"code_enforcement_cases.csv", TypeCodeEnforcement},
		{"inherited_list.csv", TypeInherited},
		{"mystery_data.csv", TypeOther},
	}

	for _, tt := range tests {
		if got := DetectType(tt.filename); got != tt.want {
			t.Errorf("DetectType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestApplySkipTrace(t *testing.T) {
	rec := primaryRecord("123 Main St", "Roanoke", "1234567", "ABS1")
	rec.MailingStreet = "123 Main St"
	e := NewEngine(testFIPS, []*property.Record{rec})

	lien := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	stats := e.ApplySkipTrace([]*SkipTraceRow{
		{
			ParcelID:     "1234567",
			FIPS:         testFIPS,
			GoldenStreet: "88 Forwarding Way",
			GoldenCity:   "Richmond",
			GoldenState:  "VA",
			GoldenZip:    "23220",
			Lien:         &lien,
			Deceased:     true,
		},
		{ParcelID: "0000000", FIPS: "51680"}, // wrong region, skipped
	})

	assert.Equal(t, 1, stats.MatchedByParcel)
	assert.Equal(t, 1, stats.SkippedFIPS)
	assert.Equal(t, 1, stats.Flagged)

	assert.True(t, rec.Skip.Lien)
	assert.True(t, rec.Skip.Deceased)
	assert.False(t, rec.Skip.Bankruptcy)
	assert.Equal(t, "88 Forwarding Way", rec.Skip.GoldenStreet)
	assert.True(t, rec.Skip.GoldenAddressDiffers)
	assert.Equal(t, []string{"STLien", "STDeceased"}, rec.Skip.FlagCodes())
}

func TestApplySkipTraceAddressFallback(t *testing.T) {
	rec := primaryRecord("55 River Rd", "Roanoke", "", "OWN1")
	e := NewEngine(testFIPS, []*property.Record{rec})

	stats := e.ApplySkipTrace([]*SkipTraceRow{
		{Street: "55 River Rd.", City: "Roanoke", Deceased: true},
	})

	assert.Equal(t, 1, stats.MatchedByAddress)
	assert.True(t, rec.Skip.Deceased)
}

func TestAppendUnique(t *testing.T) {
	primary := []*property.Record{
		primaryRecord("123 Main St", "Roanoke", "", "ABS1"),
	}
	sales := []*property.Record{
		{PropertyStreet: "123 Main St", PropertyCity: "Roanoke"}, // duplicate
		{PropertyStreet: "456 Birch Ct", PropertyCity: "Roanoke"},
		{PropertyStreet: ""}, // no address, skipped
	}

	combined, added := AppendUnique(primary, sales)
	assert.Equal(t, 1, added)
	assert.Len(t, combined, 2)
	assert.Equal(t, "456 Birch Ct", combined[1].PropertyStreet)
}
