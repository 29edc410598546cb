package models

// Kind discriminates search documents.
type Kind string

const (
	KindArticle  Kind = "article"
	KindGlossary Kind = "glossary"
)

// SearchDocument is one entry of the search index, in its transfer format.
type SearchDocument struct {
	ID          string `json:"id"`
	Type        Kind   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Path        string `json:"path"`
	Term        string `json:"term,omitempty"`
}
