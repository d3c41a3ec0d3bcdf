package priority

// The 13 base priority codes. Exactly one is assigned to every record by
// the scorer; the numeric IDs match the legacy database and drive mailing
// list sort order.
const (
	CodeOIN1    = "OIN1"    // owner-occupant, grantor match
	CodeOWN1    = "OWN1"    // owner-occupant, old sale date
	CodeOON1    = "OON1"    // owner-occupant, low sale amount
	CodeBUY2    = "BUY2"    // owner-occupant, recent high-value non-cash buyer
	CodeTRS2    = "TRS2"    // trust
	CodeINH1    = "INH1"    // absentee, grantor match
	CodeABS1    = "ABS1"    // absentee, old sale date
	CodeTRS1    = "TRS1"    // absentee, low sale amount
	CodeBUY1    = "BUY1"    // recent high-value cash/absentee buyer
	CodeCHU1    = "CHU1"    // church
	CodeDefault = "DEFAULT" // unclassified
	CodeABS12   = "ABS12"   // legacy standard-absentee code, kept for store compatibility
	CodeOWN20   = "OWN20"   // owner-occupant, 20+ year hold
)

// NicheOnlyID marks records that entered the set from a niche dataset with
// no primary-file counterpart.
const NicheOnlyID = 99

// Definition describes one base priority code.
type Definition struct {
	ID   int
	Code string
	Name string
}

// Definitions lists every base code in legacy ID order.
var Definitions = []Definition{
	{1, CodeOIN1, "Owner-Occupant List 1"},
	{2, CodeOWN1, "Owner-Occupant List 3"},
	{3, CodeOON1, "Owner-Occupant List 4"},
	{4, CodeBUY2, "Owner-Occupant List 5"},
	{5, CodeTRS2, "Trust"},
	{6, CodeINH1, "Absentee List 1"},
	{7, CodeABS1, "Absentee List 3"},
	{8, CodeTRS1, "Absentee List 4"},
	{9, CodeBUY1, "Investor Buyers"},
	{10, CodeCHU1, "Church"},
	{11, CodeDefault, "Default"},
	{12, CodeABS12, "Standard Absentee"},
	{13, CodeOWN20, "Owner-Occupant List 20"},
}

// Lookup returns the definition for a code string. Unknown codes map to
// the default definition so a corrupt persisted code never breaks a run.
func Lookup(code string) Definition {
	for _, d := range Definitions {
		if d.Code == code {
			return d
		}
	}
	return Definition{11, CodeDefault, "Default"}
}

// IsBase reports whether a token is one of the 13 base codes. Used when
// splitting persisted compound codes back into prefixes and base.
func IsBase(token string) bool {
	for _, d := range Definitions {
		if d.Code == token {
			return true
		}
	}
	return false
}
