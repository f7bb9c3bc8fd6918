package pipeline

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/openvariant/ldindex"
)

// Report is one population's row-count diagnostics. Dropped rows are expected
// attrition from thresholding, failed lifts, ambiguity, and join misses, so
// they are reported as counts rather than logged as errors.
type Report struct {
	Population       string
	EntriesRead      int
	DuplicateEntries int
	IndexRowsRead    int
	IndexRowsLifted  int
	IndexRowsDropped int
	ResolvedEntries  int
	MeanR2, MaxR2    float64
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"population %s: %d matrix entries read (%d duplicate), index rows %d read / %d lifted / %d dropped ambiguous, %d resolved entries (mean r² %.3f, max r² %.3f)",
		r.Population, r.EntriesRead, r.DuplicateEntries,
		r.IndexRowsRead, r.IndexRowsLifted, r.IndexRowsDropped,
		r.ResolvedEntries, r.MeanR2, r.MaxR2,
	)
}

// summarizeR2 fills the r² summary fields from the resolved entries.
func (r *Report) summarizeR2(entries []ldindex.ResolvedLDEntry) {
	if len(entries) == 0 {
		return
	}

	r2 := make([]float64, 0, len(entries))
	for _, e := range entries {
		r2 = append(r2, e.R*e.R)
	}

	// stats only errors on empty input, which is excluded above
	r.MeanR2, _ = stats.Mean(r2)
	r.MaxR2, _ = stats.Max(r2)
}
