package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cinecore/marquee/pkg/marquee/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "", "Warehouse database path (required)")
		topN   = flag.Int("top", 10, "Number of top rated movies to show")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	warehouse, err := sqlite.Open(ctx, sqlite.Config{Path: *dbPath})
	if err != nil {
		log.Fatalf("open warehouse: %v", err)
	}
	defer warehouse.Close()

	count, err := warehouse.CountMovies(ctx)
	if err != nil {
		log.Fatalf("count movies: %v", err)
	}
	missing, err := warehouse.MoviesMissingEmbedding(ctx)
	if err != nil {
		log.Fatalf("missing embeddings: %v", err)
	}

	fmt.Printf("Movies:             %d\n", count)
	fmt.Printf("Missing embeddings: %d\n", len(missing))
	fmt.Println()

	top, err := warehouse.TopRated(ctx, *topN)
	if err != nil {
		log.Fatalf("top rated: %v", err)
	}
	fmt.Printf("Top %d by rating:\n", len(top))
	for i, m := range top {
		fmt.Printf("  %2d. %s (%d, %s) rating %.1f\n", i+1, m.Title, m.Year, m.Genres, m.Rating)
	}
}
