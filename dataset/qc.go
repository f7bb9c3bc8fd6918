package dataset

// PassesQC reports whether a row's quality-control flags are all within the
// permitted set. Rows with no flags always pass. Used by dataset layers that
// carry a QC column to split valid rows from flagged ones without mutating
// the underlying table.
func PassesQC(rowFlags []string, permitted map[string]bool) bool {
	for _, flag := range rowFlags {
		if !permitted[flag] {
			return false
		}
	}

	return true
}

// InvertQC returns the complement predicate, for collecting the rows a QC
// pass would discard.
func InvertQC(pred func([]string) bool) func([]string) bool {
	return func(flags []string) bool {
		return !pred(flags)
	}
}
