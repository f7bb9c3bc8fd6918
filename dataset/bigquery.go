package dataset

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
)

// WrappedBigQuery bundles a BigQuery client with the project, dataset, and
// table the LD index artifact lands in.
type WrappedBigQuery struct {
	Context context.Context
	Client  *bigquery.Client
	Project string
	Dataset string
	Table   string
}

// ConnectBigQuery opens a client against the project with default
// credentials.
func ConnectBigQuery(ctx context.Context, project, dataset, table string) (*WrappedBigQuery, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &WrappedBigQuery{
		Context: ctx,
		Client:  client,
		Project: project,
		Dataset: dataset,
		Table:   table,
	}, nil
}

type bqEntry struct {
	VariantIDI string  `bigquery:"variant_id_i"`
	VariantIDJ string  `bigquery:"variant_id_j"`
	R          float64 `bigquery:"r"`
	Population string  `bigquery:"population"`
}

// UploadBatchSize caps rows per streaming insert request.
const UploadBatchSize = 10000

// Upload streams the table's rows into BigQuery in batches.
func (bq *WrappedBigQuery) Upload(t *LDIndexTable) (int, error) {
	inserter := bq.Client.Dataset(bq.Dataset).Table(bq.Table).Inserter()

	entries := t.Entries()
	uploaded := 0

	for start := 0; start < len(entries); start += UploadBatchSize {
		end := start + UploadBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		batch := make([]*bqEntry, 0, end-start)
		for _, e := range entries[start:end] {
			batch = append(batch, &bqEntry{
				VariantIDI: e.VariantIDI,
				VariantIDJ: e.VariantIDJ,
				R:          e.R,
				Population: e.Population,
			})
		}

		if err := inserter.Put(bq.Context, batch); err != nil {
			return uploaded, pfx.Err(fmt.Errorf("after %d rows: %s", uploaded, err))
		}
		uploaded += len(batch)
	}

	return uploaded, nil
}
