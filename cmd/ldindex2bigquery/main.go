// ldindex2bigquery streams a persisted LD index artifact into a BigQuery
// table so downstream fine-mapping queries can join against it.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/openvariant/ldindex"
	_ "github.com/openvariant/ldindex/compileinfoprint"
	"github.com/openvariant/ldindex/dataset"
)

func main() {
	var input, project, bqDataset, table, population string
	flag.StringVar(&input, "input", "", "Path to the LD index TSV produced by ldindex. May be gs:// and may be compressed.")
	flag.StringVar(&project, "project", "", "Google Cloud project")
	flag.StringVar(&bqDataset, "dataset", "", "BigQuery dataset name")
	flag.StringVar(&table, "table", "ld_index", "BigQuery table name")
	flag.StringVar(&population, "population", "", "If set, upload only this population's entries")
	flag.Parse()

	if input == "" || project == "" || bqDataset == "" {
		flag.PrintDefaults()
		log.Fatalln("Must specify --input, --project, and --dataset")
	}

	ctx := context.Background()

	var client *storage.Client
	if strings.HasPrefix(input, "gs://") {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
	}

	data, err := ldindex.ReadAllMaybeCompressed(input, client)
	if err != nil {
		log.Fatalln(err)
	}

	tbl, err := dataset.LoadTSV(strings.NewReader(string(data)))
	if err != nil {
		log.Fatalln(err)
	}

	if population != "" {
		tbl = tbl.Filter(func(e ldindex.ResolvedLDEntry) bool {
			return e.Population == population
		})
	}

	bq, err := dataset.ConnectBigQuery(ctx, project, bqDataset, table)
	if err != nil {
		log.Fatalln(err)
	}

	n, err := bq.Upload(tbl)
	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("Finished. Uploaded %d rows to %s.%s.%s\n", n, project, bqDataset, table)
}
