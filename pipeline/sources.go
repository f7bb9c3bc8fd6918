package pipeline

import (
	"fmt"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/openvariant/ldindex/ldmatrix"
	"github.com/openvariant/ldindex/liftover"
	"github.com/openvariant/ldindex/variantindex"
)

// SourcesFromTemplates builds one PopulationSource per population from
// templated storage paths, where %s stands in for the population label, e.g.
// gs://bucket/ld/%s.entries.tsv.gz. Matrix paths ending in .db, .sqlite, or
// .sqlite3 are read as SQLite stores; anything else is read as a delimited
// entry dump. The lifter is shared across populations; it is read-only once
// loaded.
func SourcesFromTemplates(populations []string, matrixTemplate, indexTemplate string, lift liftover.Lifter, client *storage.Client, minR2 float64) ([]PopulationSource, error) {
	out := make([]PopulationSource, 0, len(populations))

	for _, pop := range populations {
		pop := pop
		matrixPath := fmt.Sprintf(matrixTemplate, pop)
		indexPath := fmt.Sprintf(indexTemplate, pop)

		var (
			matrix ldmatrix.EntrySource
			err    error
		)
		if isSQLitePath(matrixPath) {
			matrix, err = ldmatrix.NewSQLiteSource(matrixPath, "", minR2)
		} else {
			matrix, err = ldmatrix.NewTSVSource(matrixPath, client, minR2)
		}
		if err != nil {
			return nil, err
		}

		out = append(out, PopulationSource{
			Population: pop,
			Matrix:     matrix,
			IndexRows: func() ([]variantindex.RawRow, error) {
				return variantindex.Load(indexPath, client)
			},
			Lifter: lift,
		})
	}

	return out, nil
}

func isSQLitePath(path string) bool {
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}
