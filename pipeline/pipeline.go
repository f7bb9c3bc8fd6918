// Package pipeline runs the per-population LD resolution pipelines and
// aggregates their results into the final index.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/openvariant/ldindex"
	"github.com/openvariant/ldindex/ldmatrix"
	"github.com/openvariant/ldindex/liftover"
	"github.com/openvariant/ldindex/variantindex"
)

// PopulationSource bundles the inputs of one population's pipeline. Each
// population reads only its own matrix and index table, so sources can be
// processed in parallel without shared state.
type PopulationSource struct {
	Population string
	Matrix     ldmatrix.EntrySource

	// IndexRows loads the population's raw variant index table.
	IndexRows func() ([]variantindex.RawRow, error)

	Lifter liftover.Lifter
}

// Runtime carries the execution configuration. It is constructed once at
// process start and passed explicitly into every entry point; there is no
// ambient global session.
type Runtime struct {
	// Workers caps the number of populations processed concurrently.
	// Zero or negative means one at a time.
	Workers int

	// Timeout bounds each population's pipeline so one stuck population
	// cannot stall the aggregator. Zero means no deadline.
	Timeout time.Duration

	// Log receives per-population warnings and reports. A *log.Logger is
	// safe for concurrent use from the in-flight populations. Nil means
	// the standard logger.
	Log *log.Logger
}

func (rt Runtime) logger() *log.Logger {
	if rt.Log != nil {
		return rt.Log
	}

	return log.Default()
}

// ResolveEntries joins symmetrized matrix entries against the population's
// resolved variant index on both coordinates. Entries whose row or col has no
// surviving index record were dropped earlier by thresholding, failed lifts,
// or ambiguity, and are silently excluded here.
func ResolveEntries(entries []ldindex.MatrixEntry, index []ldindex.VariantIndexRecord, population string) []ldindex.ResolvedLDEntry {
	byIdx := make(map[uint32]string, len(index))
	for _, rec := range index {
		byIdx[rec.Idx] = rec.VariantID
	}

	out := make([]ldindex.ResolvedLDEntry, 0, len(entries))
	for _, e := range entries {
		idI, ok := byIdx[e.Row]
		if !ok {
			continue
		}

		idJ, ok := byIdx[e.Col]
		if !ok {
			continue
		}

		out = append(out, ldindex.ResolvedLDEntry{
			VariantIDI: idI,
			VariantIDJ: idJ,
			R:          e.R,
			Population: population,
		})
	}

	return out
}

// BuildPopulation runs one population's pipeline: stream and symmetrize the
// matrix entries, resolve the variant index, and join the two. The entry
// stream and the index are independent until the join, so they are computed
// concurrently. Duplicate stored matrix entries are logged and dropped rather
// than treated as fatal.
func BuildPopulation(ctx context.Context, rt Runtime, src PopulationSource) ([]ldindex.ResolvedLDEntry, *Report, error) {
	report := &Report{Population: src.Population}

	var (
		wg         sync.WaitGroup
		entries    []ldindex.MatrixEntry
		index      []ldindex.VariantIndexRecord
		idxStats   variantindex.Stats
		matrixErr  error
		resolveErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()

		raw, err := ldmatrix.Collect(src.Matrix)
		if err != nil {
			matrixErr = &PopulationError{Population: src.Population, Stage: "read matrix", Err: err}
			return
		}
		report.EntriesRead = len(raw)

		sym, err := ldmatrix.Symmetrize(raw)
		var dup *ldmatrix.InvariantViolationError
		if errors.As(err, &dup) {
			report.DuplicateEntries = len(dup.Duplicates)
			rt.logger().Printf("population %s: dropping %d duplicate stored matrix entries", src.Population, len(dup.Duplicates))
		} else if err != nil {
			matrixErr = &PopulationError{Population: src.Population, Stage: "symmetrize", Err: err}
			return
		}

		entries = sym
	}()

	go func() {
		defer wg.Done()

		rows, err := src.IndexRows()
		if err != nil {
			resolveErr = &PopulationError{Population: src.Population, Stage: "read variant index", Err: err}
			return
		}

		index, idxStats = variantindex.Resolve(rows, src.Lifter)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		// The stage goroutines may still be running and writing into the
		// original report, so hand back a fresh one.
		return nil, &Report{Population: src.Population}, &PopulationError{Population: src.Population, Stage: "pipeline", Err: ctx.Err()}
	case <-done:
	}

	if matrixErr != nil {
		return nil, report, matrixErr
	}
	if resolveErr != nil {
		return nil, report, resolveErr
	}

	report.IndexRowsRead = idxStats.Read
	report.IndexRowsLifted = idxStats.Lifted
	report.IndexRowsDropped = idxStats.DroppedAmbiguous

	resolved := ResolveEntries(entries, index, src.Population)
	report.ResolvedEntries = len(resolved)
	report.summarizeR2(resolved)

	return resolved, report, nil
}

// Aggregate runs every population's pipeline and unions the successes into
// the LD index. A failed population is logged and excluded; the run only
// fails when every population failed. The union is a barrier: it waits for
// all populations to reach a terminal state.
func Aggregate(ctx context.Context, rt Runtime, sources []PopulationSource) (*ldindex.LDIndex, []*Report, error) {
	type result struct {
		pop     string
		entries []ldindex.ResolvedLDEntry
		report  *Report
		err     error
	}

	workers := rt.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	concurrencyLimit := make(chan struct{}, workers)
	results := make(chan result, len(sources))

	for _, src := range sources {
		src := src

		wg.Add(1)
		go func() {
			defer wg.Done()

			concurrencyLimit <- struct{}{}
			defer func() { <-concurrencyLimit }()

			popCtx := ctx
			if rt.Timeout > 0 {
				var cancel context.CancelFunc
				popCtx, cancel = context.WithTimeout(ctx, rt.Timeout)
				defer cancel()
			}

			entries, report, err := BuildPopulation(popCtx, rt, src)
			results <- result{pop: src.Population, entries: entries, report: report, err: err}
		}()
	}

	wg.Wait()
	close(results)

	out := &ldindex.LDIndex{Entries: make([]ldindex.ResolvedLDEntry, 0)}
	reports := make([]*Report, 0, len(sources))

	succeeded := 0
	for res := range results {
		if res.err != nil {
			rt.logger().Printf("warning: %s", res.err)
			continue
		}

		succeeded++
		reports = append(reports, res.report)
		out.Entries = append(out.Entries, res.entries...)
	}

	if len(sources) > 0 && succeeded == 0 {
		return nil, reports, ErrNoPopulationsSucceeded
	}

	return out, reports, nil
}
