package search

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"hundred-minds/pkg/metrics"
	"hundred-minds/pkg/models"
)

// Field names a searchable document field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldContent     Field = "content"
	FieldCategory    Field = "category"
)

// Key is a weighted field. Weights are relative to each other.
type Key struct {
	Field  Field
	Weight float64
}

// Options tunes matching. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	Keys []Key
	// Threshold is the worst per-field score still counted as a match:
	// 0 requires a perfect hit, 1 accepts anything.
	Threshold float64
	// Distance is how many runes away from Location a match may drift
	// before it scores as a total mismatch.
	Distance           int
	Location           int
	MinMatchCharLength int
	IgnoreLocation     bool
	IgnoreFieldNorm    bool
}

// DefaultOptions favours titles and hits near the start of a field.
func DefaultOptions() Options {
	return Options{
		Keys: []Key{
			{Field: FieldTitle, Weight: 1},
			{Field: FieldDescription, Weight: 0.7},
			{Field: FieldContent, Weight: 0.5},
			{Field: FieldCategory, Weight: 0.2},
		},
		Threshold:          0.2,
		Distance:           100,
		MinMatchCharLength: 2,
	}
}

// FieldMatch is the per-field score of a result.
type FieldMatch struct {
	Field Field   `json:"field"`
	Score float64 `json:"score"`
}

// Result is one matching document. Lower Score is more relevant.
type Result struct {
	Document models.SearchDocument `json:"document"`
	Score    float64               `json:"score"`
	Matches  []FieldMatch          `json:"matches,omitempty"`
	refIndex int
}

// Engine searches a fixed index. It holds no mutable state after
// construction and may be shared between goroutines.
type Engine struct {
	docs    []models.SearchDocument
	opts    Options
	weights map[Field]float64
}

// NewEngine prepares an engine over docs. The slice is copied.
func NewEngine(docs []models.SearchDocument, opts Options) *Engine {
	if len(opts.Keys) == 0 {
		opts.Keys = DefaultOptions().Keys
	}
	total := 0.0
	for _, k := range opts.Keys {
		total += k.Weight
	}
	weights := make(map[Field]float64, len(opts.Keys))
	for _, k := range opts.Keys {
		if total > 0 {
			weights[k.Field] = k.Weight / total
		} else {
			weights[k.Field] = 1 / float64(len(opts.Keys))
		}
	}
	return &Engine{
		docs:    append([]models.SearchDocument(nil), docs...),
		opts:    opts,
		weights: weights,
	}
}

// Len is the number of indexed documents.
func (e *Engine) Len() int {
	return len(e.docs)
}

// Search returns documents matching query, most relevant first. Equal scores
// keep index order. limit <= 0 means no limit.
func (e *Engine) Search(query string, limit int) []Result {
	started := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(started).Seconds()) }()

	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) < e.opts.MinMatchCharLength {
		metrics.SearchQueries.WithLabelValues("skipped").Inc()
		return []Result{}
	}

	matcher := newPatternMatcher(strings.ToLower(query), e.opts)
	results := []Result{}
	for i, doc := range e.docs {
		var matches []FieldMatch
		total := 1.0
		for _, k := range e.opts.Keys {
			value := fieldValue(doc, k.Field)
			if value == "" {
				continue
			}
			res := matcher.searchIn(strings.ToLower(value))
			if !res.IsMatch {
				continue
			}
			matches = append(matches, FieldMatch{Field: k.Field, Score: res.Score})

			score := res.Score
			weight := e.weights[k.Field]
			if score == 0 && weight > 0 {
				score = epsilon
			}
			norm := 1.0
			if !e.opts.IgnoreFieldNorm {
				norm = fieldNorm(value)
			}
			total *= math.Pow(score, weight*norm)
		}
		if len(matches) == 0 {
			continue
		}
		results = append(results, Result{Document: doc, Score: total, Matches: matches, refIndex: i})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score == results[b].Score {
			return results[a].refIndex < results[b].refIndex
		}
		return results[a].Score < results[b].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		metrics.SearchQueries.WithLabelValues("empty").Inc()
	} else {
		metrics.SearchQueries.WithLabelValues("hit").Inc()
	}
	return results
}

// epsilon stands in for a perfect score so the weighted product stays
// ordered by weight.
const epsilon = 2.220446049250313e-16

// fieldNorm shortens the reach of matches in long, many-word fields.
func fieldNorm(value string) float64 {
	tokens := len(strings.Fields(value))
	if tokens == 0 {
		tokens = 1
	}
	return math.Round(1/math.Sqrt(float64(tokens))*1000) / 1000
}

func fieldValue(doc models.SearchDocument, f Field) string {
	switch f {
	case FieldTitle:
		return doc.Title
	case FieldDescription:
		return doc.Description
	case FieldContent:
		return doc.Content
	case FieldCategory:
		return doc.Category
	}
	return ""
}

// Group splits results by document kind, preserving relevance order.
func Group(results []Result) (articles, glossary []Result) {
	articles, glossary = []Result{}, []Result{}
	for _, r := range results {
		switch r.Document.Type {
		case models.KindArticle:
			articles = append(articles, r)
		case models.KindGlossary:
			glossary = append(glossary, r)
		}
	}
	return articles, glossary
}

type chunk struct {
	pattern    []rune
	alphabet   map[rune]uint64
	startIndex int
}

// patternMatcher holds a lower-cased query split into bitap-sized chunks.
type patternMatcher struct {
	pattern string
	chunks  []chunk
	opts    Options
}

func newPatternMatcher(pattern string, opts Options) *patternMatcher {
	m := &patternMatcher{pattern: pattern, opts: opts}
	runes := []rune(pattern)
	add := func(p []rune, start int) {
		m.chunks = append(m.chunks, chunk{pattern: p, alphabet: patternAlphabet(p), startIndex: start})
	}
	n := len(runes)
	if n <= maxBits {
		add(runes, 0)
		return m
	}
	remainder := n % maxBits
	end := n - remainder
	for i := 0; i < end; i += maxBits {
		add(runes[i:i+maxBits], i)
	}
	if remainder > 0 {
		start := n - maxBits
		add(runes[start:], start)
	}
	return m
}

func (m *patternMatcher) searchIn(text string) bitapResult {
	if text == m.pattern {
		return bitapResult{IsMatch: true, Score: 0}
	}
	runes := []rune(text)
	total := 0.0
	matched := false
	for _, c := range m.chunks {
		res := bitapSearch(runes, c.pattern, c.alphabet, bitapOptions{
			Location:           m.opts.Location + c.startIndex,
			Distance:           m.opts.Distance,
			Threshold:          m.opts.Threshold,
			MinMatchCharLength: m.opts.MinMatchCharLength,
			IgnoreLocation:     m.opts.IgnoreLocation,
		})
		if res.IsMatch {
			matched = true
		}
		total += res.Score
	}
	return bitapResult{IsMatch: matched, Score: total / float64(len(m.chunks))}
}
