// Package ldindex reconstructs a linkage-disequilibrium index from
// population-specific correlation matrices stored in compressed triangular
// form. Matrix coordinates are translated to canonical variant identifiers in
// the target genome build, deduplicated, and merged across populations.
package ldindex

// MatrixEntry is one stored correlation coefficient from a population's LD
// matrix. In triangular storage Row <= Col.
type MatrixEntry struct {
	Row uint32
	Col uint32
	R   float64
}

// Diagonal reports whether the entry sits on the matrix diagonal.
func (e MatrixEntry) Diagonal() bool {
	return e.Row == e.Col
}

// VariantLocus is a genomic position and allele pair within a specific genome
// build. Alleles can contain > 1 character.
type VariantLocus struct {
	Chromosome string
	Position   uint32
	Ref        string
	Alt        string
}

// VariantIndexRecord maps one matrix coordinate to the canonical identifier of
// the variant it represents, in the target build. After ambiguity resolution
// the Idx -> VariantID mapping for a population is injective.
type VariantIndexRecord struct {
	Idx       uint32
	VariantID string
	Position  uint32
}

// ResolvedLDEntry is a correlation record with both matrix coordinates
// resolved to variant identifiers.
type ResolvedLDEntry struct {
	VariantIDI string  `csv:"variant_id_i"`
	VariantIDJ string  `csv:"variant_id_j"`
	R          float64 `csv:"r"`
	Population string  `csv:"population"`
}

// LDIndex is the aggregate of resolved entries across all populations that
// were processed successfully. It is constructed once per run and is read-only
// afterwards.
type LDIndex struct {
	Entries []ResolvedLDEntry
}

// Populations returns the distinct population labels present in the index, in
// first-seen order.
func (x *LDIndex) Populations() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, e := range x.Entries {
		if _, ok := seen[e.Population]; ok {
			continue
		}
		seen[e.Population] = struct{}{}
		out = append(out, e.Population)
	}

	return out
}
