package models

// Difficulty levels as written in front matter.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "入门"
	DifficultyIntermediate Difficulty = "进阶"
	DifficultyAdvanced     Difficulty = "高级"
)

const (
	DefaultCategory = "未分类"
	DefaultIcon     = "💡"
)

// ParseDifficulty accepts the Chinese labels and their English names.
// Unknown values fall back to beginner.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "进阶", "intermediate":
		return DifficultyIntermediate
	case "高级", "advanced":
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

// ModelMeta is the recognized front matter of a mental-model page.
type ModelMeta struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Icon          string     `json:"icon"`
	Difficulty    Difficulty `json:"difficulty"`
	Tags          []string   `json:"tags"`
	RelatedModels []string   `json:"relatedModels"`
	PublishedAt   string     `json:"publishedAt,omitempty"`
}

// Model is a mental-model page.
type Model struct {
	Slug string `json:"slug"`
	ModelMeta
	Content string `json:"content,omitempty"`
	HTML    string `json:"html,omitempty"`
	Format  string `json:"format,omitempty"`
}
