package memstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/tables"
)

func testBatch() tables.Tables {
	now := time.Now().UTC()
	movie := func(id int64, title string, rating float64) tables.Movie {
		return tables.Movie{
			MovieID:           id,
			Title:             title,
			IMDBRating:        sql.NullFloat64{Float64: rating, Valid: true},
			ProcessedOverview: "overview " + title,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
	return tables.Tables{
		RunID:     "01RUN",
		CreatedAt: now,
		Movies: []tables.Movie{
			movie(1, "Alpha", 9.0),
			movie(2, "Beta", 8.0),
			movie(3, "Gamma", 8.5),
		},
		Genres: []tables.Genre{
			{MovieID: 1, Genre: "Drama"},
			{MovieID: 2, Genre: "Action"},
			{MovieID: 3, Genre: "Drama"},
		},
		Credits: []tables.Credit{
			{MovieID: 1, PersonName: "Morgan Freeman", Role: tables.RoleStar1},
			{MovieID: 2, PersonName: "Someone Else", Role: tables.RoleDirector},
		},
	}
}

func newLoaded(t *testing.T) *Store {
	t.Helper()
	s := New()
	if err := s.LoadTables(context.Background(), testBatch()); err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	return s
}

func TestGetMovie(t *testing.T) {
	s := newLoaded(t)
	ctx := context.Background()

	m, err := s.GetMovie(ctx, 2)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if m.Title != "Beta" {
		t.Errorf("Title = %q", m.Title)
	}

	if _, err := s.GetMovie(ctx, 99); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTopRatedOrdering(t *testing.T) {
	s := newLoaded(t)

	got, err := s.TopRated(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Alpha" || got[1].Title != "Gamma" {
		t.Errorf("TopRated = %+v", got)
	}
}

func TestMoviesByGenre(t *testing.T) {
	s := newLoaded(t)

	got, err := s.MoviesByGenre(context.Background(), "drama", 10)
	if err != nil {
		t.Fatalf("MoviesByGenre: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d movies, want 2", len(got))
	}
	if got[0].Genres != "Drama" {
		t.Errorf("Genres = %q", got[0].Genres)
	}
}

func TestMoviesByActor(t *testing.T) {
	s := newLoaded(t)

	got, err := s.MoviesByActor(context.Background(), "freeman", 10)
	if err != nil {
		t.Fatalf("MoviesByActor: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 1 {
		t.Errorf("MoviesByActor = %+v", got)
	}
}

func TestEmbeddingLifecycle(t *testing.T) {
	s := newLoaded(t)
	ctx := context.Background()

	missing, err := s.MoviesMissingEmbedding(ctx)
	if err != nil {
		t.Fatalf("MoviesMissingEmbedding: %v", err)
	}
	if len(missing) != 3 {
		t.Fatalf("got %d missing, want 3", len(missing))
	}

	if err := s.SetEmbedding(ctx, 1, []float32{1, 0}); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}
	if err := s.SetEmbedding(ctx, 99, []float32{1, 0}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown movie, got %v", err)
	}

	missing, err = s.MoviesMissingEmbedding(ctx)
	if err != nil {
		t.Fatalf("MoviesMissingEmbedding: %v", err)
	}
	if len(missing) != 2 {
		t.Errorf("got %d missing after embedding one, want 2", len(missing))
	}
}

func TestFindSimilar(t *testing.T) {
	s := newLoaded(t)
	ctx := context.Background()

	s.SetEmbedding(ctx, 1, []float32{1, 0})
	s.SetEmbedding(ctx, 2, []float32{0, 1})
	s.SetEmbedding(ctx, 3, []float32{0.9, 0.1})

	got, err := s.FindSimilar(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].MovieID != 1 || got[1].MovieID != 3 {
		t.Errorf("matches = %+v", got)
	}
	if got[0].Similarity < got[1].Similarity {
		t.Errorf("matches not sorted by similarity: %+v", got)
	}
}

func TestLoadTablesResetsEmbeddings(t *testing.T) {
	s := newLoaded(t)
	ctx := context.Background()

	s.SetEmbedding(ctx, 1, []float32{1})
	if err := s.LoadTables(ctx, testBatch()); err != nil {
		t.Fatalf("LoadTables: %v", err)
	}

	missing, _ := s.MoviesMissingEmbedding(ctx)
	if len(missing) != 3 {
		t.Errorf("embeddings should reset on reload, %d missing", len(missing))
	}
}
