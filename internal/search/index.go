// Package search provides a simple, deterministic, concurrency-safe in-memory
// search index over pet documents. It is intentionally small:
//
//   - No logging in the library (callers decide how/what to log)
//   - Accent- and case-insensitive tokenization (Spanish text folds to ASCII)
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// document's token set: score = |Q ∩ D| / |Q ∪ D|.
package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is a ranked document ID with its similarity score.
type Result struct {
	ID    string
	Score float64
}

// Index is an immutable token index over a set of documents.
type Index struct {
	docs map[string]map[string]struct{}
}

// spanish stop words excluded from token sets; high-frequency function words
// would otherwise dominate Jaccard overlap.
var stopwords = map[string]struct{}{
	"de": {}, "la": {}, "el": {}, "en": {}, "y": {}, "a": {}, "los": {},
	"las": {}, "un": {}, "una": {}, "con": {}, "para": {}, "por": {},
	"que": {}, "se": {}, "su": {}, "es": {}, "muy": {},
}

// foldTransformer strips combining marks after NFD decomposition, so
// "cachorrón" and "cachorron" tokenize identically.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s and removes diacritics.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokenize splits s into folded, stop-word-filtered tokens.
func Tokenize(s string) []string {
	folded := Fold(s)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Build constructs an index over docs, tokenizing the string values of the
// given fields in each document. Documents whose listed fields are all empty
// are skipped.
func Build(docs map[string]map[string]any, fields []string) *Index {
	ix := &Index{docs: make(map[string]map[string]struct{}, len(docs))}
	for id, doc := range docs {
		set := make(map[string]struct{})
		for _, field := range fields {
			s, _ := doc[field].(string)
			for _, tok := range Tokenize(s) {
				set[tok] = struct{}{}
			}
		}
		if len(set) > 0 {
			ix.docs[id] = set
		}
	}
	return ix
}

// TopK returns up to k documents ranked by Jaccard similarity to the query,
// best first. Zero-score documents are excluded. Ties break by document ID
// so results are deterministic.
func (ix *Index) TopK(query string, k int) []Result {
	if ix == nil || k <= 0 {
		return nil
	}
	qTokens := Tokenize(query)
	if len(qTokens) == 0 {
		return nil
	}
	qSet := make(map[string]struct{}, len(qTokens))
	for _, t := range qTokens {
		qSet[t] = struct{}{}
	}

	results := make([]Result, 0, len(ix.docs))
	for id, dSet := range ix.docs {
		inter := 0
		for t := range qSet {
			if _, ok := dSet[t]; ok {
				inter++
			}
		}
		if inter == 0 {
			continue
		}
		union := len(qSet) + len(dSet) - inter
		results = append(results, Result{ID: id, Score: float64(inter) / float64(union)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int {
	if ix == nil {
		return 0
	}
	return len(ix.docs)
}
