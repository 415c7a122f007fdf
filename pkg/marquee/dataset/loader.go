// Package dataset reads the raw IMDB CSV dump into memory.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cinecore/marquee/pkg/marquee/tables"
)

// Column names of the source dataset. Mapping is header-driven, so column
// order in the file does not matter.
const (
	colTitle       = "Series_Title"
	colYear        = "Released_Year"
	colCertificate = "Certificate"
	colRuntime     = "Runtime"
	colGenre       = "Genre"
	colRating      = "IMDB_Rating"
	colOverview    = "Overview"
	colMetaScore   = "Meta_score"
	colDirector    = "Director"
	colVotes       = "No_of_Votes"
	colGross       = "Gross"

	// Optional columns supplied by upstream preprocessing flows.
	colProcessedOverview = "processed_overview"
	colKeywords          = "keywords"
)

var starCols = [4]string{"Star1", "Star2", "Star3", "Star4"}

// Load reads the CSV file at path into raw records. Rows with the wrong
// field count are skipped with a logged warning rather than failing the
// whole batch. Overview text is HTML-stripped; some dumps carry markup.
func Load(path string) ([]tables.RawMovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV data from r. The first row must be the header.
func Read(r io.Reader) ([]tables.RawMovieRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colTitle]; !ok {
		return nil, fmt.Errorf("dataset missing %s column", colTitle)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []tables.RawMovieRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row at line %d: %v", line, err)
			continue
		}

		rec := tables.RawMovieRecord{
			Title:        field(row, colTitle),
			ReleasedYear: field(row, colYear),
			Certificate:  field(row, colCertificate),
			Runtime:      field(row, colRuntime),
			IMDBRating:   field(row, colRating),
			MetaScore:    field(row, colMetaScore),
			Votes:        field(row, colVotes),
			Gross:        field(row, colGross),
			Genre:        field(row, colGenre),
			Overview:     stripHTML(field(row, colOverview)),
			Director:     field(row, colDirector),

			ProcessedOverview: field(row, colProcessedOverview),
		}
		for i, col := range starCols {
			rec.Stars[i] = field(row, col)
		}
		if raw := field(row, colKeywords); raw != "" {
			for _, kw := range strings.Split(raw, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					rec.Keywords = append(rec.Keywords, kw)
				}
			}
		}

		if rec.Title == "" {
			log.Printf("Warning: skipping row at line %d: empty title", line)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// stripHTML extracts the text content of s, dropping any markup.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
