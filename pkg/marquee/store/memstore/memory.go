// Package memstore is an in-memory store.Store implementation for tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/rank"
	"github.com/cinecore/marquee/pkg/marquee/store"
	"github.com/cinecore/marquee/pkg/marquee/tables"
)

// Store holds one loaded batch in memory.
type Store struct {
	mu         sync.RWMutex
	data       tables.Tables
	embeddings map[int64][]float32
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{embeddings: make(map[int64][]float32)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// LoadTables replaces the stored batch. Embeddings do not survive a reload;
// movie IDs from a previous batch mean nothing in the next one.
func (s *Store) LoadTables(ctx context.Context, t tables.Tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = t
	s.embeddings = make(map[int64][]float32)
	return nil
}

func (s *Store) GetMovie(ctx context.Context, movieID int64) (tables.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.data.Movies {
		if m.MovieID == movieID {
			return m, nil
		}
	}
	return tables.Movie{}, internalerr.ErrNotFound
}

func (s *Store) CountMovies(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data.Movies)), nil
}

func (s *Store) TopRated(ctx context.Context, limit int) ([]store.MovieSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries(func(tables.Movie) bool { return true }, limit), nil
}

func (s *Store) MoviesByGenre(ctx context.Context, genre string, limit int) ([]store.MovieSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool)
	for _, g := range s.data.Genres {
		if strings.Contains(strings.ToLower(g.Genre), strings.ToLower(genre)) {
			wanted[g.MovieID] = true
		}
	}
	return s.summaries(func(m tables.Movie) bool { return wanted[m.MovieID] }, limit), nil
}

func (s *Store) MoviesByActor(ctx context.Context, actor string, limit int) ([]store.MovieSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]bool)
	for _, c := range s.data.Credits {
		if strings.Contains(strings.ToLower(c.PersonName), strings.ToLower(actor)) {
			wanted[c.MovieID] = true
		}
	}
	return s.summaries(func(m tables.Movie) bool { return wanted[m.MovieID] }, limit), nil
}

func (s *Store) summaries(keep func(tables.Movie) bool, limit int) []store.MovieSummary {
	var out []store.MovieSummary
	for _, m := range s.data.Movies {
		if !keep(m) {
			continue
		}
		out = append(out, s.summary(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].MovieID < out[j].MovieID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) summary(m tables.Movie) store.MovieSummary {
	var genres []string
	for _, g := range s.data.Genres {
		if g.MovieID == m.MovieID {
			genres = append(genres, g.Genre)
		}
	}
	sm := store.MovieSummary{
		MovieID: m.MovieID,
		Title:   m.Title,
		Genres:  strings.Join(genres, ", "),
	}
	if m.ReleaseYear.Valid {
		sm.Year = m.ReleaseYear.Int64
	}
	if m.IMDBRating.Valid {
		sm.Rating = m.IMDBRating.Float64
	}
	return sm
}

func (s *Store) MoviesMissingEmbedding(ctx context.Context) ([]store.OverviewRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.OverviewRow
	for _, m := range s.data.Movies {
		if m.ProcessedOverview == "" {
			continue
		}
		if _, ok := s.embeddings[m.MovieID]; ok {
			continue
		}
		out = append(out, store.OverviewRow{MovieID: m.MovieID, ProcessedOverview: m.ProcessedOverview})
	}
	return out, nil
}

func (s *Store) SetEmbedding(ctx context.Context, movieID int64, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, m := range s.data.Movies {
		if m.MovieID == movieID {
			found = true
			break
		}
	}
	if !found {
		return internalerr.ErrNotFound
	}

	cp := make([]float32, len(vec))
	copy(cp, vec)
	s.embeddings[movieID] = cp
	return nil
}

func (s *Store) FindSimilar(ctx context.Context, vec []float32, limit int) ([]store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []rank.Scored
	for id, emb := range s.embeddings {
		scored = append(scored, rank.Scored{ID: id, Score: rank.Cosine(vec, emb)})
	}

	var matches []store.Match
	for _, t := range rank.TopK(scored, limit) {
		for _, m := range s.data.Movies {
			if m.MovieID != t.ID {
				continue
			}
			matches = append(matches, store.Match{
				MovieSummary: s.summary(m),
				Similarity:   t.Score,
				Overview:     m.ProcessedOverview,
			})
		}
	}
	return matches, nil
}
