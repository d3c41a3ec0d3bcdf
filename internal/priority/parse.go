package priority

import (
	"strconv"
	"strings"
	"time"
)

// VeryOldDate is the sentinel for blank, unparseable, pre-1901, and future
// sale dates. The legacy system filed all of those as "very old" so that
// records with missing data land on the higher-priority lists instead of
// being excluded. This is business policy, not a parsing accident; keep it.
var VeryOldDate = time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC)

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	time.RFC3339,
}

// ParseSaleDate parses a raw sale date field. Anything blank, malformed,
// dated 1900 or earlier (the legacy sentinel), or in the future collapses
// to VeryOldDate.
func ParseSaleDate(raw string, now time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return VeryOldDate
	}

	for _, format := range dateFormats {
		t, err := time.Parse(format, s)
		if err != nil {
			continue
		}
		if t.Year() <= 1900 {
			return VeryOldDate
		}
		if t.After(now) {
			return VeryOldDate
		}
		return t
	}

	return VeryOldDate
}

// ParseSaleAmount parses a raw sale amount field, tolerating dollar signs
// and thousands separators. Blank, placeholder, negative, and unparseable
// values return nil: an unknown amount satisfies the low-amount rules but
// never the high-amount ones.
func ParseSaleAmount(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "", "null", "none", "n/a":
		return nil
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if amount < 0 {
		// Negative amounts are data errors.
		return nil
	}

	return &amount
}

// ParseFlag interprets the truthy spellings the vendor files use for
// boolean columns (cash buyer, vacant, deceased).
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "y", "1.0":
		return true
	}
	return false
}
