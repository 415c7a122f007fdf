// Package store defines the warehouse interface over the normalized movie
// tables and their embeddings.
package store

import (
	"context"

	"github.com/cinecore/marquee/pkg/marquee/tables"
)

// Store is the warehouse boundary. One batch of tables is loaded at a time;
// movie IDs are only meaningful within the loaded batch (its run ID tells
// batches apart).
type Store interface {
	Close() error

	// LoadTables replaces the warehouse contents with one batch.
	LoadTables(ctx context.Context, t tables.Tables) error

	// Structured queries
	GetMovie(ctx context.Context, movieID int64) (tables.Movie, error)
	CountMovies(ctx context.Context) (int64, error)
	TopRated(ctx context.Context, limit int) ([]MovieSummary, error)
	MoviesByGenre(ctx context.Context, genre string, limit int) ([]MovieSummary, error)
	MoviesByActor(ctx context.Context, actor string, limit int) ([]MovieSummary, error)

	// Embeddings
	MoviesMissingEmbedding(ctx context.Context) ([]OverviewRow, error)
	SetEmbedding(ctx context.Context, movieID int64, vec []float32) error
	FindSimilar(ctx context.Context, vec []float32, limit int) ([]Match, error)
}

// MovieSummary is the compact movie view returned by structured queries.
// Genres is the comma-joined genre list.
type MovieSummary struct {
	MovieID int64
	Title   string
	Year    int64
	Rating  float64
	Genres  string
}

// OverviewRow pairs a movie with its processed overview, for embedding
// generation.
type OverviewRow struct {
	MovieID           int64
	ProcessedOverview string
}

// Match is one result of a similarity query.
type Match struct {
	MovieSummary
	Similarity float64
	Overview   string
}
