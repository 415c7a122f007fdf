// Package export serializes entity collections to delimited files for the
// warehouse loader.
package export

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cinecore/marquee/pkg/marquee/tables"
)

// WriteCSV writes movies.csv, genres.csv, credits.csv and keywords.csv under
// dir and returns the paths written, in that order. Each file is UTF-8 with
// a header row, columns in declared entity order, timestamps as RFC 3339.
// A failed write surfaces as an error for that file; files already written
// are left in place, there is no multi-file rollback.
func WriteCSV(t tables.Tables, dir string) ([]string, error) {
	var written []string

	moviesPath := filepath.Join(dir, "movies.csv")
	if err := writeFile(moviesPath, movieHeader, movieRows(t.Movies)); err != nil {
		return written, err
	}
	written = append(written, moviesPath)

	genresPath := filepath.Join(dir, "genres.csv")
	if err := writeFile(genresPath, genreHeader, genreRows(t.Genres)); err != nil {
		return written, err
	}
	written = append(written, genresPath)

	creditsPath := filepath.Join(dir, "credits.csv")
	if err := writeFile(creditsPath, creditHeader, creditRows(t.Credits)); err != nil {
		return written, err
	}
	written = append(written, creditsPath)

	keywordsPath := filepath.Join(dir, "keywords.csv")
	if err := writeFile(keywordsPath, keywordHeader, keywordRows(t.Keywords)); err != nil {
		return written, err
	}
	written = append(written, keywordsPath)

	return written, nil
}

var (
	movieHeader = []string{
		"movie_id", "title", "release_year", "certificate", "runtime_minutes",
		"imdb_rating", "meta_score", "no_of_votes", "gross_amount",
		"processed_overview", "created_at", "updated_at",
	}
	genreHeader   = []string{"movie_id", "genre", "created_at", "updated_at"}
	creditHeader  = []string{"movie_id", "person_name", "role", "created_at", "updated_at"}
	keywordHeader = []string{"movie_id", "keyword", "created_at", "updated_at"}
)

func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func movieRows(movies []tables.Movie) [][]string {
	rows := make([][]string, len(movies))
	for i, m := range movies {
		rows[i] = []string{
			strconv.FormatInt(m.MovieID, 10),
			m.Title,
			nullIntField(m.ReleaseYear),
			nullStringField(m.Certificate),
			nullIntField(m.RuntimeMinutes),
			nullFloatField(m.IMDBRating),
			nullIntField(m.MetaScore),
			nullIntField(m.Votes),
			nullIntField(m.GrossAmount),
			m.ProcessedOverview,
			stamp(m.CreatedAt),
			stamp(m.UpdatedAt),
		}
	}
	return rows
}

func genreRows(genres []tables.Genre) [][]string {
	rows := make([][]string, len(genres))
	for i, g := range genres {
		rows[i] = []string{
			strconv.FormatInt(g.MovieID, 10),
			g.Genre,
			stamp(g.CreatedAt),
			stamp(g.UpdatedAt),
		}
	}
	return rows
}

func creditRows(credits []tables.Credit) [][]string {
	rows := make([][]string, len(credits))
	for i, c := range credits {
		rows[i] = []string{
			strconv.FormatInt(c.MovieID, 10),
			c.PersonName,
			c.Role,
			stamp(c.CreatedAt),
			stamp(c.UpdatedAt),
		}
	}
	return rows
}

func keywordRows(kws []tables.Keyword) [][]string {
	rows := make([][]string, len(kws))
	for i, k := range kws {
		rows[i] = []string{
			strconv.FormatInt(k.MovieID, 10),
			k.Keyword,
			stamp(k.CreatedAt),
			stamp(k.UpdatedAt),
		}
	}
	return rows
}

// Null columns export as empty cells.
func nullIntField(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func nullFloatField(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func nullStringField(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
