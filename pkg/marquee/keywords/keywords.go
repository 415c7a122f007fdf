// Package keywords scores terms with TF-IDF weighting.
//
// Two capabilities live here and must not be conflated:
//
//   - Extract ranks terms within a single document. With a corpus of one,
//     IDF degenerates to a constant, so ranking reduces to term frequency
//     under the standard length-normalized weighting.
//   - CorpusMatrix builds a shared TF-IDF matrix across a multi-document
//     corpus with unigrams and bigrams, capped to a feature budget.
//
// Both exclude English stopwords from the vocabulary and are deterministic:
// identical input always yields identical output.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Extract returns the top n terms of text ranked by TF-IDF score.
// Ties are broken by first-seen vocabulary order, stable across calls.
// An empty vocabulary (or n <= 0) yields an empty result, not an error.
func Extract(text string, n int) []string {
	if n <= 0 {
		return nil
	}

	terms := tokenize(text)
	if len(terms) == 0 {
		return nil
	}

	vocab := make([]string, 0, len(terms))
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		if _, seen := counts[t]; !seen {
			vocab = append(vocab, t)
		}
		counts[t]++
	}

	// Single-document corpus: IDF is a shared constant and the L2 norm
	// scales every score equally, so ranking is by raw count.
	order := make([]int, len(vocab))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[vocab[order[i]]] > counts[vocab[order[j]]]
	})

	if n > len(order) {
		n = len(order)
	}
	top := make([]string, n)
	for i := 0; i < n; i++ {
		top[i] = vocab[order[i]]
	}
	return top
}

// Matrix is a dense TF-IDF matrix over a corpus. Terms holds the vocabulary
// in alphabetical order; Rows holds one L2-normalized score row per input
// document, indexed in parallel with Terms.
type Matrix struct {
	Terms []string
	Rows  [][]float64
}

// CorpusMatrix builds a TF-IDF matrix across texts using unigrams and
// bigrams. The vocabulary is capped to maxFeatures terms, selected by total
// corpus frequency (alphabetical on ties). IDF uses the smoothed form
// ln((1+N)/(1+df)) + 1. maxFeatures <= 0 means no cap.
func CorpusMatrix(texts []string, maxFeatures int) Matrix {
	docs := make([][]string, len(texts))
	totals := make(map[string]int)
	df := make(map[string]int)

	for i, text := range texts {
		unigrams := tokenize(text)
		terms := make([]string, 0, len(unigrams)*2)
		terms = append(terms, unigrams...)
		for j := 0; j+1 < len(unigrams); j++ {
			terms = append(terms, unigrams[j]+" "+unigrams[j+1])
		}
		docs[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			totals[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	vocab := make([]string, 0, len(totals))
	for t := range totals {
		vocab = append(vocab, t)
	}
	if maxFeatures > 0 && len(vocab) > maxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if totals[vocab[i]] != totals[vocab[j]] {
				return totals[vocab[i]] > totals[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:maxFeatures]
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for d, terms := range docs {
		row := make([]float64, len(vocab))
		for _, t := range terms {
			if i, ok := index[t]; ok {
				row[i] += idf[i]
			}
		}
		normalize(row)
		rows[d] = row
	}

	return Matrix{Terms: vocab, Rows: rows}
}

func normalize(row []float64) {
	var sum float64
	for _, v := range row {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

// tokenize lowercases text, splits it into alphanumeric word runs of two or
// more characters, and drops English stopwords. Single-character tokens are
// excluded from the vocabulary.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	runes := 0

	flush := func() {
		word := current.String()
		current.Reset()
		n := runes
		runes = 0
		if n < 2 || isStopword(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
			runes++
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
