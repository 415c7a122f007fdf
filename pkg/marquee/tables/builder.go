package tables

import (
	"crypto/rand"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cinecore/marquee/pkg/marquee/clean"
	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/keywords"
	"github.com/cinecore/marquee/pkg/marquee/textnorm"
)

// DefaultKeywordsPerMovie bounds the Keyword rows emitted per record.
const DefaultKeywordsPerMovie = 5

// Builder turns a batch of raw records into the four entity collections.
// It is a pure function of the batch plus one wall-clock timestamp captured
// at batch start.
type Builder struct {
	normalizer       *textnorm.Normalizer
	keywordsPerMovie int
	entropy          *ulid.MonotonicEntropy

	// Now overrides the batch timestamp source, for tests.
	Now func() time.Time
}

// NewBuilder creates a builder. The normalizer is a required resource:
// building without one would silently emit unnormalized text.
func NewBuilder(n *textnorm.Normalizer, keywordsPerMovie int) (*Builder, error) {
	if n == nil {
		return nil, internalerr.ErrInvalidConfig
	}
	if keywordsPerMovie <= 0 {
		keywordsPerMovie = DefaultKeywordsPerMovie
	}
	return &Builder{
		normalizer:       n,
		keywordsPerMovie: keywordsPerMovie,
		entropy:          ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Build processes the batch in one pass. Records with zero genres, zero
// stars, or an overview that normalizes to nothing contribute zero rows to
// the corresponding child collection; they never abort the batch.
func (b *Builder) Build(batch []RawMovieRecord) (Tables, error) {
	if b.normalizer == nil {
		return Tables{}, internalerr.ErrInvalidConfig
	}

	now := time.Now().UTC()
	if b.Now != nil {
		now = b.Now().UTC()
	}

	out := Tables{
		RunID:     ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		CreatedAt: now,
		Movies:    make([]Movie, 0, len(batch)),
	}

	for i, rec := range batch {
		movieID := int64(i + 1)

		overview := rec.ProcessedOverview
		if overview == "" {
			overview = b.normalizer.Normalize(rec.Overview)
		}

		movie := Movie{
			MovieID:           movieID,
			Title:             rec.Title,
			Certificate:       nullString(rec.Certificate),
			IMDBRating:        nullFloat(rec.IMDBRating),
			MetaScore:         nullInt(rec.MetaScore),
			Votes:             nullInt(rec.Votes),
			ProcessedOverview: overview,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if year, ok := clean.Year(rec.ReleasedYear); ok {
			movie.ReleaseYear = sql.NullInt64{Int64: int64(year), Valid: true}
		}
		if minutes, ok := clean.Runtime(rec.Runtime); ok {
			movie.RuntimeMinutes = sql.NullInt64{Int64: int64(minutes), Valid: true}
		}
		if gross, ok := clean.Gross(rec.Gross); ok {
			movie.GrossAmount = sql.NullInt64{Int64: gross, Valid: true}
		}
		out.Movies = append(out.Movies, movie)

		for _, g := range clean.Genres(rec.Genre) {
			if g == "" {
				continue
			}
			out.Genres = append(out.Genres, Genre{
				MovieID:   movieID,
				Genre:     g,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		if name := strings.TrimSpace(rec.Director); name != "" {
			out.Credits = append(out.Credits, Credit{
				MovieID:    movieID,
				PersonName: name,
				Role:       RoleDirector,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		starRoles := [4]string{RoleStar1, RoleStar2, RoleStar3, RoleStar4}
		for slot, star := range rec.Stars {
			name := strings.TrimSpace(star)
			if name == "" {
				continue
			}
			out.Credits = append(out.Credits, Credit{
				MovieID:    movieID,
				PersonName: name,
				Role:       starRoles[slot],
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}

		kws := rec.Keywords
		if kws == nil {
			// Keywords are extracted from the processed overview, not
			// the raw one, so stopwords never surface as keywords.
			kws = keywords.Extract(overview, b.keywordsPerMovie)
		}
		for _, kw := range kws {
			out.Keywords = append(out.Keywords, Keyword{
				MovieID:   movieID,
				Keyword:   kw,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}

	return out, nil
}

func nullString(raw string) sql.NullString {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "NA", "N/A":
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}

func nullInt(raw string) sql.NullInt64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullFloat(raw string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
