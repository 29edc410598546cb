// Package search builds the unified search index and runs weighted fuzzy
// queries against it.
package search

import (
	"strings"

	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/models"
	"hundred-minds/pkg/services"
)

const (
	// MaxContentRunes caps the searchable text of one document.
	MaxContentRunes = 500

	// DefaultArticleCategory is used for posts without tags.
	DefaultArticleCategory = "思维模型"

	GlossaryPath = "/glossary"
)

var markupStripper = strings.NewReplacer(
	"#", "", "*", "", "`", "", "[", "", "]", "", "(", "", ")", "",
)

// CleanText removes Markdown punctuation and truncates to MaxContentRunes.
func CleanText(s string) string {
	return truncateRunes(markupStripper.Replace(s), MaxContentRunes)
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ArticlePath is the page route of a post.
func ArticlePath(slug string) string {
	return "/mind-map/" + slug
}

// BuildIndex flattens posts and glossary entries into one document list,
// articles first. IDs are unique: a later document whose ID is taken is
// dropped and logged.
func BuildIndex(posts []models.Post, glossary []models.GlossaryEntry) []models.SearchDocument {
	log := logger.L().Component("search")
	seen := make(map[string]bool, len(posts)+len(glossary))
	docs := make([]models.SearchDocument, 0, len(posts)+len(glossary))
	for _, p := range posts {
		if seen[p.Slug] {
			log.Warn().Str("id", p.Slug).Msg("duplicate article id skipped")
			continue
		}
		seen[p.Slug] = true
		category := DefaultArticleCategory
		if len(p.Tags) > 0 {
			category = p.Tags[0]
		}
		docs = append(docs, models.SearchDocument{
			ID:          p.Slug,
			Type:        models.KindArticle,
			Title:       p.Title,
			Description: p.Description,
			Content:     CleanText(p.Content),
			Category:    category,
			Path:        ArticlePath(p.Slug),
		})
	}
	for _, e := range glossary {
		if seen[e.Term] {
			log.Warn().Str("id", e.Term).Msg("glossary term collides with an indexed id, skipped")
			continue
		}
		seen[e.Term] = true
		content := e.Definition
		if len(e.Examples) > 0 {
			content += " " + strings.Join(e.Examples, " ")
		}
		docs = append(docs, models.SearchDocument{
			ID:          e.Term,
			Type:        models.KindGlossary,
			Title:       e.Term,
			Description: e.Definition,
			Content:     truncateRunes(content, MaxContentRunes),
			Category:    e.Category,
			Path:        GlossaryPath,
			Term:        e.Term,
		})
	}
	return docs
}

// BuildFromStore loads the current posts and glossary and indexes them.
func BuildFromStore(store *services.ContentStore, glossary *services.Glossary) []models.SearchDocument {
	var entries []models.GlossaryEntry
	if glossary != nil {
		entries = glossary.All()
	}
	return BuildIndex(store.Posts(), entries)
}
