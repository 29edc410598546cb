package services

import (
	"sort"

	"hundred-minds/pkg/models"
)

// AggregateTags counts tag occurrences across posts. The result is ordered
// by count, highest first; equal counts keep first-seen order.
func AggregateTags(posts []models.Post) []models.TagCount {
	counts := []models.TagCount{}
	index := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Tags {
			if tag == "" {
				continue
			}
			if i, ok := index[tag]; ok {
				counts[i].Count++
				continue
			}
			index[tag] = len(counts)
			counts = append(counts, models.TagCount{Tag: tag, Count: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// FilterByTag keeps posts carrying tag. An empty tag keeps everything.
func FilterByTag(posts []models.Post, tag string) []models.Post {
	if tag == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// TagSelection is the single-select tag filter of one visitor.
type TagSelection struct {
	Selected string `json:"selected"`
}

// Toggle selects tag, or clears the selection when tag is already selected.
func (s TagSelection) Toggle(tag string) TagSelection {
	if tag == "" || s.Selected == tag {
		return TagSelection{}
	}
	return TagSelection{Selected: tag}
}

// Apply filters posts by the current selection.
func (s TagSelection) Apply(posts []models.Post) []models.Post {
	return FilterByTag(posts, s.Selected)
}
