// Package tables normalizes raw movie records into relational entity
// collections ready for warehouse loading.
package tables

import (
	"database/sql"
	"time"
)

// RawMovieRecord is one row of the source dataset, never mutated. Star
// slots and most scalar fields arrive as raw strings; empty strings and NA
// markers mean absent.
//
// ProcessedOverview and Keywords may be precomputed by an upstream caller.
// When present they are used as-is; when absent the builder derives them
// from Overview. Both paths stay independently callable.
type RawMovieRecord struct {
	Title        string
	ReleasedYear string
	Certificate  string
	Runtime      string
	IMDBRating   string
	MetaScore    string
	Votes        string
	Gross        string
	Genre        string
	Overview     string
	Director     string
	Stars        [4]string

	ProcessedOverview string
	Keywords          []string
}

// Movie is the main entity row. MovieID is the 1-based position of the
// record within its batch: stable within one run, not across runs. RunID
// disambiguates batches produced by different runs.
type Movie struct {
	MovieID           int64
	Title             string
	ReleaseYear       sql.NullInt64
	Certificate       sql.NullString
	RuntimeMinutes    sql.NullInt64
	IMDBRating        sql.NullFloat64
	MetaScore         sql.NullInt64
	Votes             sql.NullInt64
	GrossAmount       sql.NullInt64
	ProcessedOverview string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Genre links one genre label to a movie.
type Genre struct {
	MovieID   int64
	Genre     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credit roles.
const (
	RoleDirector = "Director"
	RoleStar1    = "Star1"
	RoleStar2    = "Star2"
	RoleStar3    = "Star3"
	RoleStar4    = "Star4"
)

// Credit links a person in a given role to a movie.
type Credit struct {
	MovieID    int64
	PersonName string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Keyword links one extracted keyword to a movie.
type Keyword struct {
	MovieID   int64
	Keyword   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tables holds the four entity collections produced by one batch pass.
// All rows share the single batch timestamp and the batch RunID. Immutable
// once built; the export sink and warehouse loader only read them.
type Tables struct {
	RunID     string
	CreatedAt time.Time
	Movies    []Movie
	Genres    []Genre
	Credits   []Credit
	Keywords  []Keyword
}
