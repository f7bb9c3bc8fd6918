// ldindex builds a linkage-disequilibrium index from population-specific
// triangular LD matrices: entries are thresholded on r², expanded to the full
// symmetric relation, joined against the per-population variant index lifted
// to the target genome build, and unioned across populations into a single
// TSV artifact.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	_ "github.com/openvariant/ldindex/compileinfoprint"
	"github.com/openvariant/ldindex/dataset"
	"github.com/openvariant/ldindex/liftover"
	"github.com/openvariant/ldindex/pipeline"
)

var client *storage.Client

func main() {
	var configFile, populations, matrixTemplate, indexTemplate, chainFile, output string
	var minR2 float64
	var workers, timeoutMinutes int
	flag.StringVar(&configFile, "config", "", "Optional TOML manifest; flags override its values")
	flag.StringVar(&populations, "populations", "", "Comma-delimited population labels, e.g. afr,amr,eas,nfe")
	flag.StringVar(&matrixTemplate, "matrix", "", "Templated path to each population's LD matrix (%s is the population). May be gs://. Paths ending in .db/.sqlite are read as SQLite stores, anything else as a delimited entry dump.")
	flag.StringVar(&indexTemplate, "index", "", "Templated path to each population's raw variant index table (%s is the population). May be gs://")
	flag.StringVar(&chainFile, "chain", "", "Path to the UCSC chain file for lifting matrix loci to the target build. May be gs://")
	flag.Float64Var(&minR2, "minr2", 0, "Minimum r² an entry must reach to be kept; in (0, 1]")
	flag.StringVar(&output, "output", "", "Path for the output TSV. Defaults to stdout.")
	flag.IntVar(&workers, "workers", 4, "Number of populations to process concurrently")
	flag.IntVar(&timeoutMinutes, "timeout", 0, "Per-population timeout in minutes. 0 disables the deadline.")
	flag.Parse()

	cfg := Config{}
	if configFile != "" {
		var err error
		cfg, err = loadConfig(configFile)
		if err != nil {
			log.Fatalln(err)
		}
	}

	if populations != "" {
		cfg.Populations = strings.Split(populations, ",")
	}
	if matrixTemplate != "" {
		cfg.MatrixTemplate = matrixTemplate
	}
	if indexTemplate != "" {
		cfg.IndexTemplate = indexTemplate
	}
	if chainFile != "" {
		cfg.ChainFile = chainFile
	}
	if minR2 != 0 {
		cfg.MinR2 = minR2
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if timeoutMinutes != 0 {
		cfg.TimeoutMinutes = timeoutMinutes
	}
	if output != "" {
		cfg.Output = output
	}

	if len(cfg.Populations) == 0 {
		flag.Usage()
		log.Fatalln("Must specify --populations (or a --config manifest)")
	}
	if cfg.MatrixTemplate == "" || cfg.IndexTemplate == "" {
		flag.Usage()
		log.Fatalln("Must specify --matrix and --index templates")
	}
	if cfg.ChainFile == "" {
		flag.Usage()
		log.Fatalln("Must specify a --chain file")
	}
	if cfg.MinR2 <= 0 || cfg.MinR2 > 1 {
		log.Fatalln("--minr2 must be in (0, 1]")
	}

	if strings.HasPrefix(cfg.ChainFile, "gs://") ||
		strings.HasPrefix(cfg.MatrixTemplate, "gs://") ||
		strings.HasPrefix(cfg.IndexTemplate, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	lifter, err := liftover.NewChainLifter(cfg.ChainFile, client)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Lifting from", lifter.From(), "to", lifter.To())

	sources, err := pipeline.SourcesFromTemplates(cfg.Populations, cfg.MatrixTemplate, cfg.IndexTemplate, lifter, client, cfg.MinR2)
	if err != nil {
		log.Fatalln(err)
	}

	rt := pipeline.Runtime{
		Workers: cfg.Workers,
		Timeout: cfg.timeout(),
	}

	index, reports, err := pipeline.Aggregate(context.Background(), rt, sources)
	if err != nil {
		log.Fatalln(err)
	}

	for _, report := range reports {
		log.Println(report)
	}

	table, err := dataset.NewLDIndexTable(index.Entries)
	if err != nil {
		log.Fatalln(err)
	}

	out := os.Stdout
	if cfg.Output != "" {
		out, err = os.OpenFile(cfg.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatalln(err)
		}
		defer out.Close()
	}

	bw := bufio.NewWriter(out)
	defer bw.Flush()

	if err := table.WriteTSV(bw); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Finished. %d entries across %d populations\n", table.Len(), len(index.Populations()))
}
