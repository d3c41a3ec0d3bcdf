package distress

// Flags carries the per-record distress indicators the enhancer folds into
// the compound code. Each flag maps to exactly one prefix token.
type Flags struct {
	Liens         bool
	Bankruptcy    bool
	Divorce       bool
	PreFor        bool
	Vacant        bool
	NCOAMoved       bool // address change with a forwarding address
	NCOADropped     bool // address change with no forwarding address
	LoanToValue     *float64
	EstimatedEquity *float64
}

// HighEquity reports whether the loan-to-value ratio qualifies the record
// for the high-equity list: a known LTV above zero and at or below 50%.
// An unknown LTV never qualifies.
func (f Flags) HighEquity() bool {
	return f.LoanToValue != nil && *f.LoanToValue > 0 && *f.LoanToValue <= 50
}

// FreeAndClear reports a zero loan-to-value with real equity behind it.
// LTV exactly zero with zero equity usually means both fields are missing
// from the vendor file, so that combination does not qualify. High-equity
// and free-and-clear can therefore never both be true for one record.
func (f Flags) FreeAndClear() bool {
	return f.LoanToValue != nil && *f.LoanToValue == 0 &&
		f.EstimatedEquity != nil && *f.EstimatedEquity != 0
}

// Apply folds every set flag into the code as a prefix, in canonical
// order. Applying the same flags twice yields the same code.
func (f Flags) Apply(c Code) Code {
	type flagPrefix struct {
		on     bool
		prefix string
	}
	for _, fp := range []flagPrefix{
		{f.HighEquity(), PrefixHighEquity},
		{f.Liens, PrefixLiens},
		{f.Bankruptcy, PrefixBankruptcy},
		{f.Divorce, PrefixDivorce},
		{f.PreFor, PrefixPreFor},
		{f.FreeAndClear(), PrefixFreeAndClear},
		{f.Vacant, PrefixVacant},
		{f.NCOAMoved, PrefixNCOAMoves},
		{f.NCOADropped, PrefixNCOADrops},
	} {
		if fp.on {
			c = c.WithPrefix(fp.prefix)
		}
	}
	return c
}

// Merge ORs another record's flags into this one. Threshold inputs keep
// the first known value; boolean indicators accumulate.
func (f Flags) Merge(other Flags) Flags {
	merged := Flags{
		Liens:           f.Liens || other.Liens,
		Bankruptcy:      f.Bankruptcy || other.Bankruptcy,
		Divorce:         f.Divorce || other.Divorce,
		PreFor:          f.PreFor || other.PreFor,
		Vacant:          f.Vacant || other.Vacant,
		NCOAMoved:       f.NCOAMoved || other.NCOAMoved,
		NCOADropped:     f.NCOADropped || other.NCOADropped,
		LoanToValue:     f.LoanToValue,
		EstimatedEquity: f.EstimatedEquity,
	}
	if merged.LoanToValue == nil {
		merged.LoanToValue = other.LoanToValue
	}
	if merged.EstimatedEquity == nil {
		merged.EstimatedEquity = other.EstimatedEquity
	}
	return merged
}
