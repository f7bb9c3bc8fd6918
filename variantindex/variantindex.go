// Package variantindex builds the per-population lookup from raw matrix
// coordinates to canonical variant identifiers in the target build.
package variantindex

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"

	"github.com/openvariant/ldindex"
	"github.com/openvariant/ldindex/liftover"
)

// RawRow is one row of a population's raw variant index table: a matrix
// coordinate and the locus it was assigned in the source build. The rsid
// column is absent from some releases.
type RawRow struct {
	Idx        uint32      `csv:"idx"`
	Chromosome string      `csv:"chromosome"`
	Position   uint32      `csv:"position"`
	Ref        string      `csv:"ref"`
	Alt        string      `csv:"alt"`
	RSID       null.String `csv:"rsid"`
}

// Locus returns the row's source-build locus.
func (r RawRow) Locus() ldindex.VariantLocus {
	return ldindex.VariantLocus{
		Chromosome: r.Chromosome,
		Position:   r.Position,
		Ref:        r.Ref,
		Alt:        r.Alt,
	}
}

// Stats counts what happened to the raw rows during resolution. Dropped rows
// are expected attrition, not errors.
type Stats struct {
	Read             int
	Lifted           int
	DroppedAmbiguous int
}

// Load reads a population's raw index table from a local or gs:// path. The
// table may be compressed; its delimiter is sniffed.
func Load(path string, client *storage.Client) ([]RawRow, error) {
	data, err := ldindex.ReadAllMaybeCompressed(path, client)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("variantindex: %s: %s", path, err))
	}

	// The explicit reader keeps this safe when several populations load
	// concurrently; gocsv's package-level reader settings are not.
	rdr := csv.NewReader(bytes.NewReader(data))
	rdr.Comma = ldindex.DetermineDelimiter(data)
	rdr.LazyQuotes = true

	rows := []RawRow{}
	if err := gocsv.UnmarshalCSV(rdr, &rows); err != nil {
		return nil, pfx.Err(fmt.Errorf("variantindex: %s: %s", path, err))
	}

	return rows, nil
}

// Resolve lifts every raw row to the target build and derives its canonical
// variant identifier, dropping rows whose locus has no mapping and whole
// groups of rows whose identifiers collide. Two distinct matrix coordinates
// arriving at one identifier mean the liftover was ambiguous and neither
// assignment can be trusted, so uniqueness is keyed on the identifier, not
// the coordinate. The surviving records form an injective idx -> variantId
// mapping, sorted by position and materialized for reuse across the many
// entry lookups that follow.
func Resolve(rows []RawRow, lift liftover.Lifter) ([]ldindex.VariantIndexRecord, Stats) {
	stats := Stats{Read: len(rows)}

	byVariant := make(map[string][]ldindex.VariantIndexRecord)
	for _, row := range rows {
		lifted, ok := lift.Lift(row.Locus())
		if !ok {
			continue
		}
		stats.Lifted++

		// gnomAD anchors indels one base earlier than Ensembl; the
		// canonical identifier uses the Ensembl convention.
		lifted.Position = ldindex.EnsemblPosition(lifted.Position, lifted.Ref, lifted.Alt)

		id := lifted.VariantID()
		byVariant[id] = append(byVariant[id], ldindex.VariantIndexRecord{
			Idx:       row.Idx,
			VariantID: id,
			Position:  lifted.Position,
		})
	}

	out := make([]ldindex.VariantIndexRecord, 0, len(byVariant))
	for _, group := range byVariant {
		if distinctIdx(group) > 1 {
			stats.DroppedAmbiguous += len(group)
			continue
		}
		out = append(out, group[0])
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	return out, stats
}

func distinctIdx(group []ldindex.VariantIndexRecord) int {
	seen := make(map[uint32]struct{}, len(group))
	for _, rec := range group {
		seen[rec.Idx] = struct{}{}
	}

	return len(seen)
}
