package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cinecore/marquee/pkg/marquee"
	"github.com/cinecore/marquee/pkg/marquee/config"
	"github.com/cinecore/marquee/pkg/marquee/store"
	"github.com/cinecore/marquee/pkg/marquee/store/sqlite"
	"github.com/cinecore/marquee/pkg/marquee/tables"
)

func main() {
	var (
		datasetPath  = flag.String("dataset", "", "Dataset CSV path (required)")
		stoplistPath = flag.String("stoplist", "", "Stoplist YAML file (required)")
		outDir       = flag.String("out", "output", "Directory for the exported CSV tables")
		dbPath       = flag.String("db", "", "Warehouse database path (optional)")
		keywordCount = flag.Int("keywords", tables.DefaultKeywordsPerMovie, "Keywords extracted per movie")
	)
	flag.Parse()

	if *datasetPath == "" {
		log.Fatal("--dataset required")
	}
	if *stoplistPath == "" {
		log.Fatal("--stoplist required")
	}

	ctx := context.Background()

	normalizer, err := config.NewNormalizer(*stoplistPath)
	if err != nil {
		log.Fatalf("build normalizer: %v", err)
	}
	builder, err := tables.NewBuilder(normalizer, *keywordCount)
	if err != nil {
		log.Fatalf("build pipeline: %v", err)
	}

	var warehouse store.Store
	if *dbPath != "" {
		warehouse, err = sqlite.Open(ctx, sqlite.Config{Path: *dbPath})
		if err != nil {
			log.Fatalf("open warehouse: %v", err)
		}
		defer warehouse.Close()
	}

	pipeline, err := marquee.NewPipeline(marquee.PipelineOptions{
		Builder:   builder,
		Store:     warehouse,
		OutputDir: *outDir,
	})
	if err != nil {
		log.Fatal(err)
	}

	out, err := pipeline.Run(ctx, *datasetPath)
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}

	fmt.Printf("Run %s complete\n", out.RunID)
	fmt.Printf("  movies:   %d\n", len(out.Movies))
	fmt.Printf("  genres:   %d\n", len(out.Genres))
	fmt.Printf("  credits:  %d\n", len(out.Credits))
	fmt.Printf("  keywords: %d\n", len(out.Keywords))
	fmt.Printf("CSV tables written to %s\n", *outDir)
	if *dbPath != "" {
		fmt.Printf("Warehouse loaded at %s\n", *dbPath)
	}
}
