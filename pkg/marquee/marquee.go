// Package marquee ties the pieces together: a preparation pipeline that
// turns the raw dataset into relational tables, and an agent that answers
// questions over the embedded warehouse.
package marquee

import (
	"context"
	"fmt"

	"github.com/cinecore/marquee/internal/llm"
	"github.com/cinecore/marquee/pkg/marquee/dataset"
	"github.com/cinecore/marquee/pkg/marquee/export"
	"github.com/cinecore/marquee/pkg/marquee/internalerr"
	"github.com/cinecore/marquee/pkg/marquee/store"
	"github.com/cinecore/marquee/pkg/marquee/tables"
	"github.com/cinecore/marquee/pkg/marquee/textnorm"
)

// Pipeline runs the preparation flow: dataset rows in, relational tables
// out, with optional CSV export and warehouse load.
type Pipeline struct {
	builder *tables.Builder
	store   store.Store
	outDir  string
}

// PipelineOptions configures a Pipeline. Store and OutputDir are both
// optional sinks; leaving one unset skips that sink.
type PipelineOptions struct {
	Builder   *tables.Builder
	Store     store.Store
	OutputDir string
}

// NewPipeline creates a pipeline.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Builder == nil {
		return nil, fmt.Errorf("pipeline: %w: nil builder", internalerr.ErrInvalidConfig)
	}
	return &Pipeline{
		builder: opts.Builder,
		store:   opts.Store,
		outDir:  opts.OutputDir,
	}, nil
}

// Run loads the dataset file and prepares it.
func (p *Pipeline) Run(ctx context.Context, datasetPath string) (tables.Tables, error) {
	records, err := dataset.Load(datasetPath)
	if err != nil {
		return tables.Tables{}, err
	}
	return p.Prepare(ctx, records)
}

// Prepare builds the tables from records already in memory, then writes
// them to the configured sinks. The CSV export runs before the warehouse
// load so a load failure still leaves files on disk to inspect.
func (p *Pipeline) Prepare(ctx context.Context, records []tables.RawMovieRecord) (tables.Tables, error) {
	t, err := p.builder.Build(records)
	if err != nil {
		return tables.Tables{}, err
	}

	if p.outDir != "" {
		if _, err := export.WriteCSV(t, p.outDir); err != nil {
			return tables.Tables{}, err
		}
	}
	if p.store != nil {
		if err := p.store.LoadTables(ctx, t); err != nil {
			return tables.Tables{}, fmt.Errorf("load warehouse: %w", err)
		}
	}
	return t, nil
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Responder answers a question grounded on retrieved movies.
type Responder interface {
	AnswerAboutMovies(ctx context.Context, query string, history []llm.Exchange, movies []store.Match) (string, error)
}

// Agent answers questions over a loaded warehouse by embedding the query,
// retrieving the nearest movies, and handing both to the responder.
type Agent struct {
	store      store.Store
	embedder   Embedder
	resp       Responder
	normalizer *textnorm.Normalizer
	topK       int
}

// AgentOptions configures an Agent. Responder is optional: without one the
// agent can still embed and retrieve, which is all the embedding backfill
// needs. Normalizer is optional; when set, queries go through the same
// normalization as the stored overviews before embedding.
type AgentOptions struct {
	Store      store.Store
	Embedder   Embedder
	Responder  Responder
	Normalizer *textnorm.Normalizer
	TopK       int
}

// NewAgent creates an agent with the given dependencies.
func NewAgent(opts AgentOptions) (*Agent, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("agent: %w: nil store", internalerr.ErrInvalidConfig)
	}
	if opts.Embedder == nil {
		return nil, fmt.Errorf("agent: %w: nil embedder", internalerr.ErrInvalidConfig)
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Agent{
		store:      opts.Store,
		embedder:   opts.Embedder,
		resp:       opts.Responder,
		normalizer: opts.Normalizer,
		topK:       topK,
	}, nil
}

// Close shuts down the underlying store.
func (a *Agent) Close() error {
	return a.store.Close()
}

// EmbedMissing embeds every movie that has a processed overview but no
// stored vector yet. It returns the number of movies embedded; the first
// failure stops the backfill, and vectors stored before it stay stored.
func (a *Agent) EmbedMissing(ctx context.Context) (int, error) {
	rows, err := a.store.MoviesMissingEmbedding(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, row := range rows {
		vec, err := a.embedder.Embed(ctx, row.ProcessedOverview)
		if err != nil {
			return done, fmt.Errorf("embed movie %d: %w", row.MovieID, err)
		}
		if err := a.store.SetEmbedding(ctx, row.MovieID, vec); err != nil {
			return done, fmt.Errorf("store embedding for movie %d: %w", row.MovieID, err)
		}
		done++
	}
	return done, nil
}

// FindSimilarMovies retrieves the movies nearest to the query text.
func (a *Agent) FindSimilarMovies(ctx context.Context, query string, limit int) ([]store.Match, error) {
	if limit <= 0 {
		limit = a.topK
	}
	if a.normalizer != nil {
		// Stored vectors are of normalized overviews; embed the query in
		// the same space. A query that normalizes away stays raw.
		if normalized := a.normalizer.Normalize(query); normalized != "" {
			query = normalized
		}
	}
	vec, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return a.store.FindSimilar(ctx, vec, limit)
}

// ChatAboutMovies retrieves the movies nearest to the query and asks the
// responder to answer with them as context. It returns the answer along
// with the matches it was grounded on.
func (a *Agent) ChatAboutMovies(ctx context.Context, query string, history []llm.Exchange) (string, []store.Match, error) {
	if a.resp == nil {
		return "", nil, fmt.Errorf("agent: %w: no responder configured", internalerr.ErrInvalidConfig)
	}
	matches, err := a.FindSimilarMovies(ctx, query, a.topK)
	if err != nil {
		return "", nil, err
	}
	answer, err := a.resp.AnswerAboutMovies(ctx, query, history, matches)
	if err != nil {
		return "", nil, err
	}
	return answer, matches, nil
}
