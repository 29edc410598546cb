package models

import "time"

// PostMeta is the recognized front matter of a mind-map post.
type PostMeta struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
}

// Post represents a mind-map article on disk.
type Post struct {
	Slug string `json:"slug"`
	PostMeta
	Content string `json:"content,omitempty"`
	HTML    string `json:"html,omitempty"`
	Format  string `json:"format,omitempty"` // yaml, toml, json
}

// HasTag reports whether tag is one of the post's tags.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
