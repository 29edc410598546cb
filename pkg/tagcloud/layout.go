// Package tagcloud computes reproducible visual offsets for tag-cloud items.
//
// Every value is derived from the item's position with integer arithmetic,
// so a page rendered on the server and re-rendered in the browser lays the
// cloud out identically.
package tagcloud

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"hundred-minds/pkg/models"
)

// Style is the floating-animation tuple of one cloud item.
type Style struct {
	XOffset  int           `json:"xOffset"`  // -20..19
	YOffset  int           `json:"yOffset"`  // -15..14
	Rotation int           `json:"rotation"` // degrees, -5..4
	Duration time.Duration `json:"duration"` // 4s: 3*seed mod 3 is always 0
	Delay    time.Duration `json:"delay"`    // 0..1.9s
}

// StyleFor returns the style of the item at index i.
func StyleFor(i int) Style {
	seed := i + 1
	return Style{
		XOffset:  mod(seed*13, 40) - 20,
		YOffset:  mod(seed*17, 30) - 15,
		Rotation: mod(seed*7, 10) - 5,
		Duration: time.Duration(4+mod(seed*3, 3)) * time.Second,
		Delay:    time.Duration(mod(seed, 20)) * 100 * time.Millisecond,
	}
}

// MarshalJSON reports the timings in seconds, the unit animation
// libraries expect.
func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		XOffset  int     `json:"xOffset"`
		YOffset  int     `json:"yOffset"`
		Rotation int     `json:"rotation"`
		Duration float64 `json:"duration"`
		Delay    float64 `json:"delay"`
	}{s.XOffset, s.YOffset, s.Rotation, s.Duration.Seconds(), s.Delay.Seconds()})
}

// mod is a modulo that stays non-negative for negative indexes.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Item is a tag placed in the cloud.
type Item struct {
	models.TagCount
	Style    Style   `json:"style"`
	Weight   float64 `json:"weight"`
	Scale    float64 `json:"scale"`
	Opacity  float64 `json:"opacity"`
	Blur     float64 `json:"blur"`
	Selected bool    `json:"selected"`
}

// Layout orders tags by count (stable) and attaches styles. selected marks
// the active tag, which is drawn fully opaque and unblurred.
func Layout(tags []models.TagCount, selected string) []Item {
	sorted := append([]models.TagCount(nil), tags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	maxCount := 1
	if len(sorted) > 0 && sorted[0].Count > 0 {
		maxCount = sorted[0].Count
	}

	items := make([]Item, len(sorted))
	for i, t := range sorted {
		weight := float64(t.Count) / float64(maxCount)
		item := Item{
			TagCount: t,
			Style:    StyleFor(i),
			Weight:   weight,
			Scale:    0.85 + weight*0.35,
			Opacity:  0.6 + weight*0.4,
			Blur:     math.Max(0, (1-weight)*0.5),
			Selected: t.Tag == selected,
		}
		if item.Selected {
			item.Opacity = 1
			item.Blur = 0
		}
		items[i] = item
	}
	return items
}
