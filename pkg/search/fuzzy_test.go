package search

import (
	"strings"
	"testing"

	"hundred-minds/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioIndex() []models.SearchDocument {
	return BuildIndex([]models.Post{
		{Slug: "first-principles", PostMeta: models.PostMeta{Title: "第一性原理", Tags: []string{"物理学"}}},
		{Slug: "inversion", PostMeta: models.PostMeta{Title: "逆向思维", Tags: []string{"数学"}}},
	}, nil)
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.ID
	}
	return out
}

func TestSearch_Scenario(t *testing.T) {
	engine := NewEngine(scenarioIndex(), DefaultOptions())

	results := engine.Search("第一性", 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "first-principles", results[0].Document.ID)

	assert.Empty(t, engine.Search("zzz_no_match", 0))
}

func TestSearch_EmptyAndShortQueries(t *testing.T) {
	engine := NewEngine(scenarioIndex(), DefaultOptions())

	for _, q := range []string{"", "   ", "\t\n", "第", "a", " 逆 "} {
		results := engine.Search(q, 0)
		assert.NotNil(t, results)
		assert.Empty(t, results, "query %q", q)
	}
}

func TestSearch_TitleOutranksDescription(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "desc", Type: models.KindArticle, Title: "Sunk Cost", Description: "opportunity matters when choosing"},
		{ID: "title", Type: models.KindArticle, Title: "Opportunity Cost", Description: "what you give up"},
	}
	results := NewEngine(docs, DefaultOptions()).Search("opportunity", 0)
	assert.Equal(t, []string{"title", "desc"}, ids(results))
	assert.Less(t, results[0].Score, results[1].Score)
}

func TestSearch_ToleratesTypos(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "bias", Type: models.KindArticle, Title: "Confirmation Bias"},
		{ID: "sunk", Type: models.KindArticle, Title: "Sunk Cost"},
	}
	results := NewEngine(docs, DefaultOptions()).Search("confirmaton", 0)
	assert.Equal(t, []string{"bias"}, ids(results))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	docs := []models.SearchDocument{{ID: "a", Title: "Occam's Razor"}}
	assert.Len(t, NewEngine(docs, DefaultOptions()).Search("OCCAM", 0), 1)
}

func TestSearch_LocationSensitive(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "deep", Content: strings.Repeat("x", 60) + " needle"},
		{ID: "near", Content: "xx needle"},
	}
	results := NewEngine(docs, DefaultOptions()).Search("needle", 0)
	assert.Equal(t, []string{"near"}, ids(results))

	opts := DefaultOptions()
	opts.IgnoreLocation = true
	results = NewEngine(docs, opts).Search("needle", 0)
	assert.ElementsMatch(t, []string{"near", "deep"}, ids(results))
}

func TestSearch_TiesKeepIndexOrder(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "one", Title: "Margin of Safety"},
		{ID: "two", Title: "Margin of Safety"},
		{ID: "three", Title: "Margin of Safety"},
	}
	results := NewEngine(docs, DefaultOptions()).Search("margin", 0)
	assert.Equal(t, []string{"one", "two", "three"}, ids(results))
}

func TestSearch_Limit(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "one", Title: "Margin of Safety"},
		{ID: "two", Title: "Margin of Safety"},
	}
	assert.Len(t, NewEngine(docs, DefaultOptions()).Search("margin", 1), 1)
}

func TestSearch_LongPattern(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789abcd"
	docs := []models.SearchDocument{
		{ID: "long", Title: long + " tail"},
		{ID: "other", Title: "unrelated"},
	}
	results := NewEngine(docs, DefaultOptions()).Search(long, 0)
	assert.Equal(t, []string{"long"}, ids(results))
}

func TestSearch_ExactFieldScoresBest(t *testing.T) {
	docs := []models.SearchDocument{
		{ID: "prefix", Title: "复利效应"},
		{ID: "exact", Title: "复利"},
	}
	results := NewEngine(docs, DefaultOptions()).Search("复利", 0)
	assert.Equal(t, []string{"exact", "prefix"}, ids(results))
}

func TestGroup(t *testing.T) {
	docs := BuildIndex(
		[]models.Post{{Slug: "entropy-post", PostMeta: models.PostMeta{Title: "熵增定律"}}},
		[]models.GlossaryEntry{{Term: "熵增", Definition: "系统趋向无序"}},
	)
	results := NewEngine(docs, DefaultOptions()).Search("熵增", 0)
	require.Len(t, results, 2)

	articles, glossary := Group(results)
	assert.Equal(t, []string{"entropy-post"}, ids(articles))
	assert.Equal(t, []string{"熵增"}, ids(glossary))

	a, g := Group(nil)
	assert.Empty(t, a)
	assert.Empty(t, g)
}

func TestFieldNorm(t *testing.T) {
	assert.Equal(t, 1.0, fieldNorm("单词"))
	assert.Equal(t, 0.5, fieldNorm("a b c d"))
	assert.Equal(t, 1.0, fieldNorm("   "))
}
