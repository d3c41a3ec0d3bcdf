package niche

import (
	"github.com/rva-directmail/internal/debug"
	"github.com/rva-directmail/internal/property"
)

// AppendUnique adds recent-sale records whose property address does not
// already exist in the primary set. Runs before classification so the
// appended records flow through the normal scoring path. Returns the
// combined set and the number of records added.
func AppendUnique(records, sales []*property.Record) ([]*property.Record, int) {
	if len(sales) == 0 {
		return records, 0
	}

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if key := r.AddressKey(); key != "" {
			seen[key] = struct{}{}
		}
	}

	added := 0
	for _, s := range sales {
		key := s.AddressKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, s)
		added++
	}

	debug.Printf("recent sales: appended %d of %d rows", added, len(sales))
	return records, added
}
