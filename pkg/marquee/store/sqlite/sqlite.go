// Package sqlite implements the warehouse store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/rank"
	"github.com/cinecore/marquee/pkg/marquee/store"
	"github.com/cinecore/marquee/pkg/marquee/tables"
)

// Config is the immutable warehouse connection configuration, passed
// explicitly to Open. Nothing reads connection settings from globals.
type Config struct {
	Path string
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens the warehouse database with WAL mode and foreign keys enabled,
// creating the schema if needed. The returned store owns the connection;
// Close releases it on every path.
func Open(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("warehouse path required: %w", internalerr.ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS movies (
	movie_id INTEGER PRIMARY KEY,
	run_id TEXT NOT NULL,
	title TEXT NOT NULL,
	release_year INTEGER,
	certificate TEXT,
	runtime_minutes INTEGER,
	imdb_rating REAL,
	meta_score INTEGER,
	no_of_votes INTEGER,
	gross_amount INTEGER,
	processed_overview TEXT,
	overview_embedding TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS genres (
	movie_id INTEGER NOT NULL,
	genre TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY(movie_id) REFERENCES movies(movie_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS credits (
	movie_id INTEGER NOT NULL,
	person_name TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY(movie_id) REFERENCES movies(movie_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS keywords (
	movie_id INTEGER NOT NULL,
	keyword TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY(movie_id) REFERENCES movies(movie_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_genres_genre ON genres(genre);
CREATE INDEX IF NOT EXISTS idx_credits_person ON credits(person_name);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// LoadTables replaces the warehouse contents with one batch, in a single
// transaction.
func (s *sqliteStore) LoadTables(ctx context.Context, t tables.Tables) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"keywords", "credits", "genres", "movies"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	const insertMovie = `
INSERT INTO movies (
	movie_id, run_id, title, release_year, certificate, runtime_minutes,
	imdb_rating, meta_score, no_of_votes, gross_amount, processed_overview,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, m := range t.Movies {
		_, err := tx.ExecContext(ctx, insertMovie,
			m.MovieID, t.RunID, m.Title, m.ReleaseYear, m.Certificate,
			m.RuntimeMinutes, m.IMDBRating, m.MetaScore, m.Votes,
			m.GrossAmount, m.ProcessedOverview,
			stamp(m.CreatedAt), stamp(m.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("load movie %d: %w", m.MovieID, err)
		}
	}

	for _, g := range t.Genres {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO genres (movie_id, genre, created_at, updated_at) VALUES (?, ?, ?, ?)",
			g.MovieID, g.Genre, stamp(g.CreatedAt), stamp(g.UpdatedAt))
		if err != nil {
			return fmt.Errorf("load genre row: %w", err)
		}
	}

	for _, c := range t.Credits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO credits (movie_id, person_name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			c.MovieID, c.PersonName, c.Role, stamp(c.CreatedAt), stamp(c.UpdatedAt))
		if err != nil {
			return fmt.Errorf("load credit row: %w", err)
		}
	}

	for _, k := range t.Keywords {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO keywords (movie_id, keyword, created_at, updated_at) VALUES (?, ?, ?, ?)",
			k.MovieID, k.Keyword, stamp(k.CreatedAt), stamp(k.UpdatedAt))
		if err != nil {
			return fmt.Errorf("load keyword row: %w", err)
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) GetMovie(ctx context.Context, movieID int64) (tables.Movie, error) {
	const q = `
SELECT movie_id, title, release_year, certificate, runtime_minutes,
	imdb_rating, meta_score, no_of_votes, gross_amount, processed_overview,
	created_at, updated_at
FROM movies WHERE movie_id = ?`

	var m tables.Movie
	var created, updated string
	err := s.db.QueryRowContext(ctx, q, movieID).Scan(
		&m.MovieID, &m.Title, &m.ReleaseYear, &m.Certificate,
		&m.RuntimeMinutes, &m.IMDBRating, &m.MetaScore, &m.Votes,
		&m.GrossAmount, &m.ProcessedOverview, &created, &updated,
	)
	if err == sql.ErrNoRows {
		return tables.Movie{}, internalerr.ErrNotFound
	}
	if err != nil {
		return tables.Movie{}, err
	}
	m.CreatedAt = parseStamp(created)
	m.UpdatedAt = parseStamp(updated)
	return m, nil
}

func (s *sqliteStore) CountMovies(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, err
}

const summarySelect = `
SELECT m.movie_id, m.title,
	COALESCE(m.release_year, 0),
	COALESCE(m.imdb_rating, 0),
	COALESCE((SELECT GROUP_CONCAT(g.genre, ', ') FROM genres g WHERE g.movie_id = m.movie_id), '')
FROM movies m`

func (s *sqliteStore) TopRated(ctx context.Context, limit int) ([]store.MovieSummary, error) {
	q := summarySelect + ` ORDER BY m.imdb_rating DESC, m.movie_id LIMIT ?`
	return s.querySummaries(ctx, q, limit)
}

func (s *sqliteStore) MoviesByGenre(ctx context.Context, genre string, limit int) ([]store.MovieSummary, error) {
	q := summarySelect + `
WHERE EXISTS (
	SELECT 1 FROM genres g WHERE g.movie_id = m.movie_id AND LOWER(g.genre) LIKE LOWER(?)
)
ORDER BY m.imdb_rating DESC, m.movie_id LIMIT ?`
	return s.querySummaries(ctx, q, "%"+genre+"%", limit)
}

func (s *sqliteStore) MoviesByActor(ctx context.Context, actor string, limit int) ([]store.MovieSummary, error) {
	q := summarySelect + `
WHERE EXISTS (
	SELECT 1 FROM credits c WHERE c.movie_id = m.movie_id AND LOWER(c.person_name) LIKE LOWER(?)
)
ORDER BY m.imdb_rating DESC, m.movie_id LIMIT ?`
	return s.querySummaries(ctx, q, "%"+actor+"%", limit)
}

func (s *sqliteStore) querySummaries(ctx context.Context, q string, args ...any) ([]store.MovieSummary, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.MovieSummary
	for rows.Next() {
		var sm store.MovieSummary
		if err := rows.Scan(&sm.MovieID, &sm.Title, &sm.Year, &sm.Rating, &sm.Genres); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *sqliteStore) MoviesMissingEmbedding(ctx context.Context) ([]store.OverviewRow, error) {
	const q = `
SELECT movie_id, processed_overview
FROM movies
WHERE overview_embedding IS NULL AND processed_overview != ''
ORDER BY movie_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.OverviewRow
	for rows.Next() {
		var r store.OverviewRow
		if err := rows.Scan(&r.MovieID, &r.ProcessedOverview); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetEmbedding(ctx context.Context, movieID int64, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE movies SET overview_embedding = ?, updated_at = ? WHERE movie_id = ?",
		string(data), stamp(time.Now().UTC()), movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}

// FindSimilar ranks every embedded movie by cosine similarity against vec.
// Similarity is computed in-process; the embedding column holds JSON arrays.
func (s *sqliteStore) FindSimilar(ctx context.Context, vec []float32, limit int) ([]store.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT movie_id, overview_embedding FROM movies WHERE overview_embedding IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []rank.Scored
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var emb []float32
		if err := json.Unmarshal([]byte(raw), &emb); err != nil {
			return nil, fmt.Errorf("decode embedding for movie %d: %w", id, err)
		}
		scored = append(scored, rank.Scored{ID: id, Score: rank.Cosine(vec, emb)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top := rank.TopK(scored, limit)
	matches := make([]store.Match, 0, len(top))
	for _, t := range top {
		m, err := s.matchByID(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		m.Similarity = t.Score
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *sqliteStore) matchByID(ctx context.Context, movieID int64) (store.Match, error) {
	const q = `
SELECT m.movie_id, m.title,
	COALESCE(m.release_year, 0),
	COALESCE(m.imdb_rating, 0),
	COALESCE((SELECT GROUP_CONCAT(g.genre, ', ') FROM genres g WHERE g.movie_id = m.movie_id), ''),
	m.processed_overview
FROM movies m WHERE m.movie_id = ?`

	var m store.Match
	err := s.db.QueryRowContext(ctx, q, movieID).Scan(
		&m.MovieID, &m.Title, &m.Year, &m.Rating, &m.Genres, &m.Overview)
	if err != nil {
		return store.Match{}, err
	}
	return m, nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
