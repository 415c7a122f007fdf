// Package textnorm turns free-form overview text into a canonical token
// sequence: case-folded, letters-only, stopword-filtered, lemmatized.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Normalizer holds the shared, read-only resources for text normalization.
// A single instance serves a whole pipeline run.
type Normalizer struct {
	stopwords  map[string]struct{}
	lemmatizer *golem.Lemmatizer
}

// New creates a normalizer with the given stopword list. Loading the English
// lemma dictionary is fatal on failure: the pipeline must never silently
// produce unlemmatized text.
func New(stopwords []string) (*Normalizer, error) {
	lemm, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("textnorm: load lemma dictionary: %w", err)
	}

	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stopwords: stops, lemmatizer: lemm}, nil
}

// Normalize runs the full pipeline and rejoins surviving tokens with single
// spaces. The empty string is a valid result when every token is removed.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized token sequence for text. Steps, in order:
// lowercase, drop every rune that is not a letter or whitespace (punctuation
// and digits collapse to nothing, not to a space), split on whitespace,
// filter stopwords, lemmatize.
func (n *Normalizer) Tokens(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if n.isStopword(tok) {
			continue
		}
		tokens = append(tokens, n.lemmatizer.Lemma(tok))
	}
	return tokens
}

func (n *Normalizer) isStopword(word string) bool {
	_, ok := n.stopwords[word]
	return ok
}

// AddStopword extends the stopword set. Not safe for concurrent use with
// Normalize; intended for setup before the batch starts.
func (n *Normalizer) AddStopword(word string) {
	n.stopwords[strings.ToLower(word)] = struct{}{}
}

// Stopwords returns a copy of the active stopword set.
func (n *Normalizer) Stopwords() []string {
	out := make([]string, 0, len(n.stopwords))
	for w := range n.stopwords {
		out = append(out, w)
	}
	return out
}
