package models

// GlossaryEntry is one term of the glossary file.
type GlossaryEntry struct {
	Term         string   `json:"term" yaml:"term"`
	Definition   string   `json:"definition" yaml:"definition"`
	Category     string   `json:"category,omitempty" yaml:"category"`
	RelatedTerms []string `json:"relatedTerms,omitempty" yaml:"relatedTerms"`
	Examples     []string `json:"examples,omitempty" yaml:"examples"`
}
