package ldindex

import (
	"strconv"
	"strings"
)

// VariantID composes the canonical variant identifier
// (chromosome_position_ref_alt) for the locus. The allele order is preserved
// as stored; it is never normalized or reordered.
func (v VariantLocus) VariantID() string {
	return strings.Join([]string{
		v.Chromosome,
		strconv.FormatUint(uint64(v.Position), 10),
		v.Ref,
		v.Alt,
	}, "_")
}

// EnsemblPosition converts a gnomAD variant position to the Ensembl
// convention. The two agree for SNPs, but gnomAD anchors indels one base
// earlier than Ensembl, so any variant with a multi-base allele shifts by one.
func EnsemblPosition(pos uint32, ref, alt string) uint32 {
	if len(ref) > 1 || len(alt) > 1 {
		return pos + 1
	}

	return pos
}
