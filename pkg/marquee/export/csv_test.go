package export

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cinecore/marquee/pkg/marquee/tables"
)

func sampleTables() tables.Tables {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return tables.Tables{
		RunID:     "01TESTRUN",
		CreatedAt: now,
		Movies: []tables.Movie{{
			MovieID:           1,
			Title:             "The Shawshank Redemption",
			ReleaseYear:       sql.NullInt64{Int64: 1994, Valid: true},
			Certificate:       sql.NullString{String: "A", Valid: true},
			RuntimeMinutes:    sql.NullInt64{Int64: 142, Valid: true},
			IMDBRating:        sql.NullFloat64{Float64: 9.3, Valid: true},
			GrossAmount:       sql.NullInt64{Int64: 28341469, Valid: true},
			ProcessedOverview: "imprisoned men bond",
			CreatedAt:         now,
			UpdatedAt:         now,
		}},
		Genres: []tables.Genre{
			{MovieID: 1, Genre: "Drama", CreatedAt: now, UpdatedAt: now},
		},
		Credits: []tables.Credit{
			{MovieID: 1, PersonName: "Frank Darabont", Role: tables.RoleDirector, CreatedAt: now, UpdatedAt: now},
		},
		Keywords: []tables.Keyword{
			{MovieID: 1, Keyword: "prison", CreatedAt: now, UpdatedAt: now},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteCSVCreatesAllFiles(t *testing.T) {
	dir := t.TempDir()

	paths, err := WriteCSV(sampleTables(), dir)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := []string{
		filepath.Join(dir, "movies.csv"),
		filepath.Join(dir, "genres.csv"),
		filepath.Join(dir, "credits.csv"),
		filepath.Join(dir, "keywords.csv"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	for _, p := range want {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output file %s: %v", p, err)
		}
	}
}

func TestWriteCSVMovieColumns(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteCSV(sampleTables(), dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "movies.csv"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if !reflect.DeepEqual(rows[0], movieHeader) {
		t.Errorf("header = %v, want %v", rows[0], movieHeader)
	}

	row := rows[1]
	if row[0] != "1" || row[1] != "The Shawshank Redemption" || row[2] != "1994" {
		t.Errorf("unexpected movie row %v", row)
	}
	// meta_score and no_of_votes were null: empty cells.
	if row[6] != "" || row[7] != "" {
		t.Errorf("null columns should be empty, got %q %q", row[6], row[7])
	}
	if row[10] != "2025-06-01T12:00:00Z" {
		t.Errorf("created_at = %q, want RFC 3339", row[10])
	}
}

func TestWriteCSVChildTables(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteCSV(sampleTables(), dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	genres := readCSV(t, filepath.Join(dir, "genres.csv"))
	if len(genres) != 2 || genres[1][0] != "1" || genres[1][1] != "Drama" {
		t.Errorf("genres rows = %v", genres)
	}

	credits := readCSV(t, filepath.Join(dir, "credits.csv"))
	if len(credits) != 2 || credits[1][1] != "Frank Darabont" || credits[1][2] != "Director" {
		t.Errorf("credits rows = %v", credits)
	}

	keywords := readCSV(t, filepath.Join(dir, "keywords.csv"))
	if len(keywords) != 2 || keywords[1][1] != "prison" {
		t.Errorf("keywords rows = %v", keywords)
	}
}

func TestWriteCSVFailurePropagates(t *testing.T) {
	if _, err := WriteCSV(sampleTables(), filepath.Join(t.TempDir(), "missing", "nested")); err == nil {
		t.Fatal("expected error for nonexistent directory")
	}
}

func TestWriteCSVEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteCSV(tables.Tables{}, dir)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(paths))
	}
	// Header-only files are valid output.
	for _, p := range paths {
		rows := readCSV(t, p)
		if len(rows) != 1 {
			t.Errorf("%s has %d rows, want header only", p, len(rows))
		}
	}
}
