package classify

// Keywords holds the owner-name keyword sets the classifier matches
// against. The sets are treated as immutable configuration: regions that
// need different lists construct their own Keywords value rather than
// mutating the defaults. All entries are lower-case; matching happens on
// the lower-cased owner name.
type Keywords struct {
	Trust           []string
	Church          []string
	ChurchEndings   []string
	Business        []string
	BusinessEndings []string
}

// DefaultKeywords returns the keyword sets carried over from the legacy
// stored procedures, spelling quirks included. Changing an entry changes
// which records land on which mailing list, so edits need a data review,
// not just a code review.
func DefaultKeywords() Keywords {
	return Keywords{
		Trust: []string{
			"trus", "estate", "decl", "supplemental", "living", "amend",
			"life", "trs", "execut", "revoc", "irrev",
		},
		Church: []string{
			"church", "evangel", "presbyterian", "bible", "episcopal", "dioce",
			"protestant", "trinity", "holy", "jerusalum", "baptist", "lutheran",
			"nazar", " god ", "convenant", "ministry", " christ ",
		},
		ChurchEndings: []string{" christ", " god"},
		Business: []string{
			"roanoke", "llc", "housing", "develop", "author", "planning",
			"district", "commiss", "partner", "group", "condo", "city",
			"real", "holding", "company", " inc ", " co ", " tc ",
			" bank ", "proprietor", "propert", "foundation", "commonwealth",
			"clinic", " office", "limit", " ltd", " health", " llp",
			" assoc", " corp", "virginia", "north carolina", "enterprises",
			"attorney", "credit union", "incorporated", "medical", "center",
		},
		BusinessEndings: []string{" lc", " inc", " co", " tc", " bank", " ltd", " llp"},
	}
}
