package load

import (
	"strings"
	"time"

	"github.com/rva-directmail/internal/niche"
	"github.com/rva-directmail/internal/priority"
	"github.com/rva-directmail/internal/property"
)

// PropertyRecord maps one primary-file row onto a pipeline record. Only
// provenance and raw fields are set here; the pipeline derives the rest.
func PropertyRecord(row Row) *property.Record {
	r := &property.Record{
		OwnerName:      ownerName(row),
		PropertyStreet: row.Get("Address"),
		PropertyCity:   row.Get("City"),
		PropertyZip:    row.Get("Zip"),
		MailingStreet:  row.Get("Mailing Address"),
		MailingCity:    row.Get("Mailing City"),
		MailingZip:     row.Get("Mailing Zip"),
		GrantorName:    row.Get("Grantor"),
		RawSaleDate:    row.Get("Last Sale Date"),
		RawSaleAmount:  row.Get("Last Sale Amount"),
		CashBuyer:      priority.ParseFlag(row.Get("Last Cash Buyer")),
	}
	r.Location.ParcelID = row.Get("APN")
	r.Location.FIPS = normalizeFIPS(row.Get("FIPS"))

	r.Flags.LoanToValue = priority.ParseSaleAmount(row.Get("Est. Loan-to-Value"))
	r.Flags.EstimatedEquity = priority.ParseSaleAmount(row.Get("Est. Equity"))

	return r
}

// PropertyRecords maps a full primary file.
func PropertyRecords(rows []Row) []*property.Record {
	records := make([]*property.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, PropertyRecord(row))
	}
	return records
}

// NicheRecord maps one niche-file row. The full row is retained in Extra
// so promoted standalone records can carry fields the mapper does not
// model.
func NicheRecord(row Row, dataset string) *property.NicheRecord {
	return &property.NicheRecord{
		Dataset:   dataset,
		OwnerName: ownerName(row),
		Street:    row.Get("Address"),
		City:      row.Get("City"),
		Zip:       row.Get("Zip"),
		ParcelID:  row.Get("APN"),
		FIPS:      normalizeFIPS(row.Get("FIPS")),
		Extra:     row,
	}
}

// NicheRecords maps a full niche file.
func NicheRecords(rows []Row, dataset string) []*property.NicheRecord {
	records := make([]*property.NicheRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, NicheRecord(row, dataset))
	}
	return records
}

// SkipTraceRow maps one skip-trace vendor row. A parseable date in a
// distress column means the event really happened; "No Data" and blanks
// do not count.
func SkipTraceRow(row Row) *niche.SkipTraceRow {
	return &niche.SkipTraceRow{
		ParcelID:     row.Get("Property APN"),
		FIPS:         normalizeFIPS(row.Get("Property FIPS")),
		Street:       row.Get("Property Address"),
		City:         row.Get("Property City"),
		GoldenStreet: row.Get("Golden Address"),
		GoldenCity:   row.Get("Golden City"),
		GoldenState:  row.Get("Golden State"),
		GoldenZip:    row.Get("Golden Zip"),
		Deceased:     priority.ParseFlag(row.Get("Owner Is Deceased")),
		Bankruptcy:   eventDate(row.Get("Owner Bankruptcy")),
		Foreclosure:  eventDate(row.Get("Owner Foreclosure")),
		Lien:         eventDate(row.Get("Lien")),
		Judgment:     eventDate(row.Get("Judgment")),
		Quitclaim:    eventDate(row.Get("Quitclaim")),
	}
}

// SkipTraceRows maps a full skip-trace file.
func SkipTraceRows(rows []Row) []*niche.SkipTraceRow {
	records := make([]*niche.SkipTraceRow, 0, len(rows))
	for _, row := range rows {
		records = append(records, SkipTraceRow(row))
	}
	return records
}

func ownerName(row Row) string {
	if name := row.Get("OwnerName"); name != "" {
		return name
	}
	last := row.Get("Owner 1 Last Name")
	first := row.Get("Owner 1 First Name")
	return strings.TrimSpace(last + " " + first)
}

// normalizeFIPS strips the ".0" suffix spreadsheets attach to numeric
// FIPS codes.
func normalizeFIPS(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), ".0")
}

var eventDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

func eventDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "no data") {
		return nil
	}
	for _, format := range eventDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return &t
		}
	}
	return nil
}
