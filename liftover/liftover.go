// Package liftover translates variant loci between reference genome builds
// using UCSC chain files.
package liftover

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	glo "github.com/carbocation/GLO"
	"github.com/carbocation/pfx"

	"github.com/openvariant/ldindex"
)

// Lifter translates a locus from the source build to the target build. A
// false second return means the locus has no mapping in the target build,
// which is a normal outcome, not an error.
type Lifter interface {
	Lift(ldindex.VariantLocus) (ldindex.VariantLocus, bool)
}

// ChainLifter lifts loci through a UCSC chain file. Chain files name their
// contigs with a chr prefix, so unprefixed chromosomes are prefixed before
// lifting and the prefix is stripped again from the result.
type ChainLifter struct {
	lo       *glo.LiftOver
	from, to string
}

// NewChainLifter loads a chain file, which may be local or gs:// and may be
// compressed. The source and target builds are taken from the file name,
// which must follow the UCSC oldToNew.over.chain.* convention.
func NewChainLifter(chainPath string, client *storage.Client) (*ChainLifter, error) {
	chunks := strings.Split(strings.Split(filepath.Base(chainPath), ".")[0], "To")
	if len(chunks) != 2 {
		return nil, fmt.Errorf("expected chain file name format to be oldToNew.over.chain.*, but found: %s", chainPath)
	}

	from := strings.ToLower(chunks[0])
	to := strings.ToLower(chunks[1])

	f, err := ldindex.MaybeOpenFromGoogleStorage(chainPath, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	r, err := ldindex.MaybeDecompress(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	lo := new(glo.LiftOver)
	lo.Init()
	lo.Load(from, to, bufio.NewReader(r))

	return &ChainLifter{lo: lo, from: from, to: to}, nil
}

// From returns the source build name in lowercase (e.g. hg19).
func (c *ChainLifter) From() string { return c.from }

// To returns the target build name in lowercase (e.g. hg38).
func (c *ChainLifter) To() string { return c.to }

// Lift translates a single-base locus to the target build. Loci that fall
// outside every chain are unmapped; loci that map to more than one target
// interval take the first, since a wrong pick surfaces later as a variant
// identifier collision and is discarded there.
func (c *ChainLifter) Lift(l ldindex.VariantLocus) (ldindex.VariantLocus, bool) {
	chrom := l.Chromosome
	if !strings.HasPrefix(chrom, "chr") {
		chrom = "chr" + chrom
	}

	pos := int64(l.Position)
	mapped := c.lo.Lift(c.from, c.to, glo.NewChainInterval(chrom, pos, pos+1))
	if len(mapped) == 0 {
		return ldindex.VariantLocus{}, false
	}

	out := ldindex.VariantLocus{
		Chromosome: strings.TrimPrefix(mapped[0].Contig, "chr"),
		Position:   uint32(mapped[0].Start),
		Ref:        l.Ref,
		Alt:        l.Alt,
	}

	return out, true
}
