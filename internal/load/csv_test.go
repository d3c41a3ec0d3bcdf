package load

import (
	"strings"
	"testing"
)

func TestReadCSVToleratesRaggedRows(t *testing.T) {
	input := "Address,City,Zip\n" +
		"123 Main St,Roanoke,24016\n" +
		"456 Oak Ave,Salem\n" + // short row
		"789 Pine Rd,Roanoke,24017,extra\n" // long row

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ReadCSV() returned %d rows, want 3", len(rows))
	}

	if got := rows[0].Get("Zip"); got != "24016" {
		t.Errorf("row 0 Zip = %q, want 24016", got)
	}
	if got := rows[1].Get("Zip"); got != "" {
		t.Errorf("short row Zip = %q, want empty", got)
	}
	if got := rows[2].Get("City"); got != "Roanoke" {
		t.Errorf("long row City = %q, want Roanoke", got)
	}
}

func TestReadCSVMissingColumnReadsEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Address\n123 Main St\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if got := rows[0].Get("Mailing Zip"); got != "" {
		t.Errorf("missing column = %q, want empty", got)
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ReadCSV() returned %d rows, want 0", len(rows))
	}
}

func TestPropertyRecordMapping(t *testing.T) {
	row := Row{
		"Owner 1 Last Name":  "Smith",
		"Owner 1 First Name": "Jane",
		"Address":            "123 Main St",
		"City":               "Roanoke",
		"Zip":                "24016",
		"Mailing Address":    "500 Other Pl",
		"Mailing Zip":        "24018",
		"Grantor":            "Smith Robert",
		"Last Sale Date":     "2015-06-15",
		"Last Sale Amount":   "$120,000",
		"Last Cash Buyer":    "true",
		"APN":                "1234567",
		"FIPS":               "51770.0",
		"Est. Loan-to-Value": "45",
		"Est. Equity":        "150000",
	}

	r := PropertyRecord(row)

	if r.OwnerName != "Smith Jane" {
		t.Errorf("OwnerName = %q", r.OwnerName)
	}
	if r.Location.ParcelID != "1234567" || r.Location.FIPS != "51770" {
		t.Errorf("Location = %+v", r.Location)
	}
	if !r.CashBuyer {
		t.Error("CashBuyer = false, want true")
	}
	if r.Flags.LoanToValue == nil || *r.Flags.LoanToValue != 45 {
		t.Errorf("LoanToValue = %v", r.Flags.LoanToValue)
	}
	if r.RawSaleAmount != "$120,000" {
		t.Errorf("RawSaleAmount = %q, provenance must stay raw", r.RawSaleAmount)
	}
}

func TestSkipTraceRowMapping(t *testing.T) {
	row := Row{
		"Property APN":      "1234567",
		"Property FIPS":     "51770.0",
		"Property Address":  "123 Main St",
		"Property City":     "Roanoke",
		"Golden Address":    "88 Forwarding Way",
		"Owner Is Deceased": "1.0",
		"Lien":              "2025-03-10",
		"Judgment":          "No Data",
		"Quitclaim":         "",
	}

	st := SkipTraceRow(row)

	if st.FIPS != "51770" {
		t.Errorf("FIPS = %q", st.FIPS)
	}
	if !st.Deceased {
		t.Error("Deceased = false, want true")
	}
	if st.Lien == nil {
		t.Error("Lien = nil, want date")
	}
	if st.Judgment != nil {
		t.Error("Judgment should be nil for No Data")
	}
	if st.Quitclaim != nil {
		t.Error("Quitclaim should be nil for blank")
	}
}
