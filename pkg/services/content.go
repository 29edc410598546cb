package services

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/metrics"
	"hundred-minds/pkg/models"
	"hundred-minds/pkg/pinyin"
)

var (
	postExts  = []string{".md", ".mdx"}
	modelExts = []string{".mdx", ".md"}
)

// ContentStore reads posts and models from their directories. It never
// writes; every load re-checks the directory so external edits show up on
// the next call.
type ContentStore struct {
	PostsDir  string
	ModelsDir string

	cache *dirCache
	log   *logger.Logger
}

func NewContentStore(postsDir, modelsDir string, log *logger.Logger) *ContentStore {
	if log == nil {
		log = logger.L()
	}
	return &ContentStore{
		PostsDir:  postsDir,
		ModelsDir: modelsDir,
		cache:     newDirCache(),
		log:       log.Component("content"),
	}
}

// InvalidateCache drops every memoized collection.
func (s *ContentStore) InvalidateCache() {
	s.cache.invalidate()
}

// Posts returns all mind-map posts, newest first.
func (s *ContentStore) Posts() []models.Post {
	files, err := listSources(s.PostsDir, postExts...)
	if err != nil {
		s.log.Warn().Err(err).Str("dir", s.PostsDir).Msg("cannot list posts")
		return []models.Post{}
	}
	fp := fingerprint(files)
	if v, ok := s.cache.get("posts", fp); ok {
		metrics.ContentLoads.WithLabelValues("posts", "hit").Inc()
		return clonePosts(v.([]models.Post))
	}
	metrics.ContentLoads.WithLabelValues("posts", "miss").Inc()

	index := make(map[string]int, len(files))
	posts := make([]models.Post, 0, len(files))
	for _, f := range files {
		p, ok := s.readPost(f)
		if !ok {
			continue
		}
		// foo.md wins over foo.mdx, the same order Post looks them up in
		if i, dup := index[p.Slug]; dup {
			s.log.Warn().Str("slug", p.Slug).Str("file", f.Path).Msg("duplicate post slug")
			if filepath.Ext(f.Name) == ".md" {
				posts[i] = p
			}
			continue
		}
		index[p.Slug] = len(posts)
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	s.cache.put("posts", fp, posts)
	return clonePosts(posts)
}

// Post looks a post up by slug. ok is false when no such post exists.
func (s *ContentStore) Post(slug string) (models.Post, bool) {
	slug, ok := cleanSlug(slug)
	if !ok {
		return models.Post{}, false
	}
	for _, ext := range postExts {
		path := SafeJoin(s.PostsDir, "", slug+ext)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return s.readPost(sourceFile{
			Name:    slug + ext,
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return models.Post{}, false
}

func (s *ContentStore) readPost(f sourceFile) (models.Post, bool) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		s.log.Warn().Err(err).Str("file", f.Path).Msg("cannot read post")
		return models.Post{}, false
	}
	slug := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))

	fm, body, format, err := ParseFrontMatter(content)
	if err != nil {
		s.log.Debug().Err(err).Str("file", f.Path).Msg("no front matter, using defaults")
		body = strings.TrimSpace(string(content))
	}
	meta, ignored := DecodePostMeta(fm, slug, f.ModTime)
	if len(ignored) > 0 {
		s.log.Debug().Strs("keys", ignored).Str("file", f.Path).Msg("ignoring unknown front matter keys")
	}
	return models.Post{
		Slug:     slug,
		PostMeta: meta,
		Content:  body,
		Format:   format,
	}, true
}

// Models returns all mental-model pages ordered by title under Chinese
// collation.
func (s *ContentStore) Models() []models.Model {
	files, err := listSources(s.ModelsDir, modelExts...)
	if err != nil {
		s.log.Warn().Err(err).Str("dir", s.ModelsDir).Msg("cannot list models")
		return []models.Model{}
	}
	fp := fingerprint(files)
	if v, ok := s.cache.get("models", fp); ok {
		metrics.ContentLoads.WithLabelValues("models", "hit").Inc()
		return cloneModels(v.([]models.Model))
	}
	metrics.ContentLoads.WithLabelValues("models", "miss").Inc()

	index := make(map[string]int, len(files))
	list := make([]models.Model, 0, len(files))
	for _, f := range files {
		m, ok := s.readModel(f)
		if !ok {
			continue
		}
		// foo.mdx wins over foo.md
		if i, dup := index[m.Slug]; dup {
			if filepath.Ext(f.Name) == ".mdx" {
				list[i] = m
			}
			continue
		}
		index[m.Slug] = len(list)
		list = append(list, m)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return pinyin.Compare(list[i].Title, list[j].Title) < 0
	})

	s.cache.put("models", fp, list)
	return cloneModels(list)
}

// Model looks a model up by slug.
func (s *ContentStore) Model(slug string) (models.Model, bool) {
	slug, ok := cleanSlug(slug)
	if !ok {
		return models.Model{}, false
	}
	for _, ext := range modelExts {
		path := SafeJoin(s.ModelsDir, "", slug+ext)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return s.readModel(sourceFile{Name: slug + ext, Path: path, Size: info.Size(), ModTime: info.ModTime()})
	}
	return models.Model{}, false
}

func (s *ContentStore) readModel(f sourceFile) (models.Model, bool) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		s.log.Warn().Err(err).Str("file", f.Path).Msg("cannot read model")
		return models.Model{}, false
	}
	slug := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))

	fm, body, format, err := ParseFrontMatter(content)
	if err != nil {
		s.log.Debug().Err(err).Str("file", f.Path).Msg("no front matter, using defaults")
		body = strings.TrimSpace(string(content))
	}
	meta, ignored := DecodeModelMeta(fm, slug)
	if len(ignored) > 0 {
		s.log.Debug().Strs("keys", ignored).Str("file", f.Path).Msg("ignoring unknown front matter keys")
	}
	return models.Model{
		Slug:      slug,
		ModelMeta: meta,
		Content:   body,
		Format:    format,
	}, true
}

// ModelsByCategory groups models by category, keeping title order inside
// each group.
func (s *ContentStore) ModelsByCategory() map[string][]models.Model {
	grouped := make(map[string][]models.Model)
	for _, m := range s.Models() {
		grouped[m.Category] = append(grouped[m.Category], m)
	}
	return grouped
}

// Categories lists distinct model categories in sorted order.
func (s *ContentStore) Categories() []string {
	grouped := s.ModelsByCategory()
	out := make([]string, 0, len(grouped))
	for c := range grouped {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// cleanSlug rejects anything that is not a plain file name. The slug is
// taken as already decoded; gin unescapes route params.
func cleanSlug(raw string) (string, bool) {
	slug := strings.TrimSpace(raw)
	if slug == "" || slug == "." || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return "", false
	}
	return slug, true
}

// Cached slices are shared; callers get their own copy of the outer slice
// and of the tag lists so filtering and sorting cannot leak back.
func clonePosts(in []models.Post) []models.Post {
	out := make([]models.Post, len(in))
	for i, p := range in {
		p.Tags = cloneStrings(p.Tags)
		out[i] = p
	}
	return out
}

func cloneModels(in []models.Model) []models.Model {
	out := make([]models.Model, len(in))
	for i, m := range in {
		m.Tags = cloneStrings(m.Tags)
		m.RelatedModels = cloneStrings(m.RelatedModels)
		out[i] = m
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
