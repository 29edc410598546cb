package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hundred-minds/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

var (
	postKeys  = keySet("title", "description", "tags", "date")
	modelKeys = keySet("title", "description", "category", "icon", "difficulty", "tags", "relatedModels", "publishedAt")
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// SafeJoin joins target below root/sub, refusing anything that climbs out.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") || filepath.IsAbs(cleanTarget) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// ParseFrontMatter splits a content file into front matter, body and format
// (yaml, toml or json).
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := strings.ReplaceAll(string(content), "\r\n", "\n")
	// Check for YAML (---)
	if header, body, ok := splitDelimited(str, "---"); ok {
		var fm map[string]interface{}
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return nil, "", "", fmt.Errorf("yaml front matter: %w", err)
		}
		return sanitizeFrontMatter(fm), body, "yaml", nil
	}
	// Check for TOML (+++)
	if header, body, ok := splitDelimited(str, "+++"); ok {
		var fm map[string]interface{}
		if err := toml.Unmarshal([]byte(header), &fm); err != nil {
			return nil, "", "", fmt.Errorf("toml front matter: %w", err)
		}
		return sanitizeFrontMatter(fm), body, "toml", nil
	}
	// Check for JSON ({)
	trimmed := strings.TrimSpace(str)
	if strings.HasPrefix(trimmed, "{") {
		dec := json.NewDecoder(strings.NewReader(trimmed))
		var fm map[string]interface{}
		if err := dec.Decode(&fm); err != nil {
			return nil, "", "", fmt.Errorf("json front matter: %w", err)
		}
		body := strings.TrimSpace(trimmed[dec.InputOffset():])
		return sanitizeFrontMatter(fm), body, "json", nil
	}

	return nil, "", "", fmt.Errorf("unknown format")
}

// splitDelimited returns the block between an opening delimiter line at the
// very start of str and the next delimiter line, plus the trimmed remainder.
func splitDelimited(str, delim string) (string, string, bool) {
	if !strings.HasPrefix(str, delim+"\n") {
		return "", "", false
	}
	rest := str[len(delim)+1:]
	if strings.HasPrefix(rest, delim) {
		return "", strings.TrimSpace(strings.TrimPrefix(rest, delim)), true
	}
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return "", "", false
	}
	body := rest[end+1+len(delim):]
	return rest[:end], strings.TrimSpace(body), true
}

func ConstructFileContent(fm map[string]interface{}, body string, format string) ([]byte, error) {
	normalizedFM := sanitizeFrontMatter(fm)
	if normalizedFM == nil {
		normalizedFM = map[string]interface{}{}
	}

	var buf bytes.Buffer
	switch format {
	case "yaml":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	case toml.LocalDate:
		return v.AsTime(time.UTC)
	case toml.LocalDateTime:
		return v.AsTime(time.UTC)
	default:
		return v
	}
}

// unknownKeys lists front matter keys outside known, sorted.
func unknownKeys(fm map[string]interface{}, known map[string]bool) []string {
	var out []string
	for k := range fm {
		if !known[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func stringField(fm map[string]interface{}, key string) string {
	v, ok := fm[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// listField accepts a list or a single scalar; empty elements are dropped.
func listField(fm map[string]interface{}, key string) []string {
	out := []string{}
	v, ok := fm[key]
	if !ok || v == nil {
		return out
	}
	var items []string
	switch list := v.(type) {
	case string:
		items = []string{list}
	default:
		s, err := cast.ToStringSliceE(list)
		if err != nil {
			return out
		}
		items = s
	}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func timeField(fm map[string]interface{}, key string) (time.Time, bool) {
	v, ok := fm[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// DecodePostMeta maps front matter onto PostMeta, filling defaults. The
// returned slice lists ignored keys.
func DecodePostMeta(fm map[string]interface{}, slug string, fallbackDate time.Time) (models.PostMeta, []string) {
	meta := models.PostMeta{
		Title:       stringField(fm, "title"),
		Description: stringField(fm, "description"),
		Tags:        listField(fm, "tags"),
	}
	if meta.Title == "" {
		meta.Title = slug
	}
	if d, ok := timeField(fm, "date"); ok {
		meta.Date = d
	} else {
		meta.Date = fallbackDate.UTC()
	}
	return meta, unknownKeys(fm, postKeys)
}

// DecodeModelMeta maps front matter onto ModelMeta, filling defaults.
func DecodeModelMeta(fm map[string]interface{}, slug string) (models.ModelMeta, []string) {
	meta := models.ModelMeta{
		Title:         stringField(fm, "title"),
		Description:   stringField(fm, "description"),
		Category:      stringField(fm, "category"),
		Icon:          stringField(fm, "icon"),
		Difficulty:    models.ParseDifficulty(stringField(fm, "difficulty")),
		Tags:          listField(fm, "tags"),
		RelatedModels: listField(fm, "relatedModels"),
		PublishedAt:   stringField(fm, "publishedAt"),
	}
	if meta.Title == "" {
		meta.Title = slug
	}
	if meta.Category == "" {
		meta.Category = models.DefaultCategory
	}
	if meta.Icon == "" {
		meta.Icon = models.DefaultIcon
	}
	// YAML and TOML decode bare dates to time.Time.
	if t, ok := fm["publishedAt"].(time.Time); ok {
		meta.PublishedAt = t.UTC().Format(time.RFC3339)
	}
	return meta, unknownKeys(fm, modelKeys)
}

// PostFrontMatter is the inverse of DecodePostMeta.
func PostFrontMatter(meta models.PostMeta) map[string]interface{} {
	tags := make([]interface{}, len(meta.Tags))
	for i, t := range meta.Tags {
		tags[i] = t
	}
	return map[string]interface{}{
		"title":       meta.Title,
		"description": meta.Description,
		"tags":        tags,
		"date":        meta.Date.UTC().Format(time.RFC3339),
	}
}

// ModelFrontMatter is the inverse of DecodeModelMeta.
func ModelFrontMatter(meta models.ModelMeta) map[string]interface{} {
	toList := func(in []string) []interface{} {
		out := make([]interface{}, len(in))
		for i, s := range in {
			out[i] = s
		}
		return out
	}
	fm := map[string]interface{}{
		"title":         meta.Title,
		"description":   meta.Description,
		"category":      meta.Category,
		"icon":          meta.Icon,
		"difficulty":    string(meta.Difficulty),
		"tags":          toList(meta.Tags),
		"relatedModels": toList(meta.RelatedModels),
	}
	if meta.PublishedAt != "" {
		fm["publishedAt"] = meta.PublishedAt
	}
	return fm
}

// ExportPost re-serializes a post in the front matter format it was read
// from. Posts without front matter are written as YAML.
func ExportPost(p models.Post) ([]byte, error) {
	return ConstructFileContent(PostFrontMatter(p.PostMeta), p.Content, exportFormat(p.Format))
}

// ExportModel is ExportPost for mental-model pages.
func ExportModel(m models.Model) ([]byte, error) {
	return ConstructFileContent(ModelFrontMatter(m.ModelMeta), m.Content, exportFormat(m.Format))
}

func exportFormat(format string) string {
	if format == "" {
		return "yaml"
	}
	return format
}
