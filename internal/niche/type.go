// Package niche merges secondary distress datasets into the primary
// property record set.
package niche

import (
	"path/filepath"
	"strings"

	"github.com/rva-directmail/internal/distress"
)

// Niche dataset type labels. The label is what lands in compound codes
// and priority names, so the spellings are fixed.
const (
	TypeLiens           = "Liens"
	TypePreForeclosure  = "PreForeclosure"
	TypeBankruptcy      = "Bankruptcy"
	TypeLandlord        = "Landlord"
	TypeCurrentTax      = "CurrentTax"
	TypeTaxHistory      = "TaxHistory"
	TypeProbate         = "Probate"
	TypeInterFamily     = "InterFamily"
	TypeCashBuyer       = "CashBuyer"
	TypeVacant          = "Vacant"
	TypeCodeEnforcement = "CodeEnforcement"
	TypeInherited       = "Inherited"
	TypeOther           = "Other"
)

// currentTaxSources are the locality feeds whose tax-delinquency files
// are current-month data rather than historical vendor extracts.
var currentTaxSources = []string{"roanoke_", "lynchburg_", "norfolk_"}

// DetectType infers the niche dataset type from a file name. Detection
// order matters: "preforeclosure" contains "foreclosure", and the tax
// feeds split on whether the file came straight from the locality.
func DetectType(filename string) string {
	name := strings.ToLower(filepath.Base(filename))

	switch {
	case strings.Contains(name, "lien"):
		return TypeLiens
	case strings.Contains(name, "foreclosure"):
		return TypePreForeclosure
	case strings.Contains(name, "bankrupt"):
		return TypeBankruptcy
	case strings.Contains(name, "landlord") || strings.Contains(name, "tired"):
		return TypeLandlord
	case strings.Contains(name, "delinq"):
		if strings.Contains(name, "current") || hasAnyPrefix(name, currentTaxSources) {
			return TypeCurrentTax
		}
		return TypeTaxHistory
	case strings.Contains(name, "probate"):
		return TypeProbate
	case strings.Contains(name, "interfamily") || strings.Contains(name, "family"):
		return TypeInterFamily
	case strings.Contains(name, "cash") && strings.Contains(name, "buyer"):
		return TypeCashBuyer
	case strings.Contains(name, "vacant"):
		return TypeVacant
	case strings.Contains(name, "code") && strings.Contains(name, "enforcement"):
		return TypeCodeEnforcement
	case strings.Contains(name, "inherit"):
		return TypeInherited
	}
	return TypeOther
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// prefixesFor maps a niche type to the compound-code prefix tokens it
// contributes. Types with a canonical distress prefix reuse it; the rest
// contribute their own label. Pre-foreclosure filings arrive with
// attached liens, so that feed contributes both tokens.
func prefixesFor(nicheType string) []string {
	switch nicheType {
	case TypeLiens:
		return []string{distress.PrefixLiens}
	case TypePreForeclosure:
		return []string{distress.PrefixPreFor, distress.PrefixLiens}
	case TypeBankruptcy:
		return []string{distress.PrefixBankruptcy}
	case TypeVacant:
		return []string{distress.PrefixVacant}
	}
	return []string{nicheType}
}

// applyFlag sets the distress flag a niche type implies, when there is one.
func applyFlag(f distress.Flags, nicheType string) distress.Flags {
	switch nicheType {
	case TypeLiens:
		f.Liens = true
	case TypePreForeclosure:
		f.PreFor = true
		f.Liens = true
	case TypeBankruptcy:
		f.Bankruptcy = true
	case TypeVacant:
		f.Vacant = true
	}
	return f
}
