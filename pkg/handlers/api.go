package handlers

import (
	"net/http"

	"hundred-minds/pkg/models"
	"hundred-minds/pkg/pinyin"
	"hundred-minds/pkg/search"
	"hundred-minds/pkg/services"
	"hundred-minds/pkg/tagcloud"

	"github.com/gin-gonic/gin"
)

// GlossaryLoader returns the current glossary.
type GlossaryLoader func() (*services.Glossary, error)

// API serves the read-only content endpoints.
type API struct {
	Content     *services.ContentStore
	Glossary    GlossaryLoader
	SearchLimit int
}

func (a *API) glossary(c *gin.Context) (*services.Glossary, bool) {
	g, err := a.Glossary()
	if err != nil {
		requestLogger(c).Error().Err(err).Msg("load glossary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load glossary"})
		return nil, false
	}
	return g, true
}

// SearchIndex returns every searchable document.
func (a *API) SearchIndex(c *gin.Context) {
	g, ok := a.glossary(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, search.BuildFromStore(a.Content, g))
}

type searchQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Search runs a fuzzy query and returns results grouped by kind.
func (a *API) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	if q.Limit == 0 {
		q.Limit = a.SearchLimit
	}
	g, ok := a.glossary(c)
	if !ok {
		return
	}

	// The index is rebuilt per query so edits show up at once; the store
	// itself serves cached posts while the directory is unchanged.
	engine := search.NewEngine(search.BuildFromStore(a.Content, g), search.DefaultOptions())
	results := engine.Search(q.Q, 0)
	total := len(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	articles, glossary := search.Group(results)
	c.JSON(http.StatusOK, gin.H{
		"query":    q.Q,
		"total":    total,
		"articles": articles,
		"glossary": glossary,
	})
}

// ListPosts returns posts, filtered by ?tag= or by the visitor's selected tag.
func (a *API) ListPosts(c *gin.Context) {
	tag, explicit := c.GetQuery("tag")
	if !explicit {
		tag = loadSelection(c).Selected
	}
	posts := services.FilterByTag(a.Content.Posts(), tag)
	for i := range posts {
		posts[i].Content = ""
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "count": len(posts), "posts": posts})
}

// GetPost returns one post with its rendered body.
func (a *API) GetPost(c *gin.Context) {
	post, ok := a.Content.Post(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	html, err := services.RenderMarkdown(post.Content)
	if err != nil {
		requestLogger(c).Warn().Err(err).Str("slug", post.Slug).Msg("render failed")
	}
	post.HTML = html
	c.JSON(http.StatusOK, post)
}

// ListModels returns model metadata ordered by title.
func (a *API) ListModels(c *gin.Context) {
	list := a.Content.Models()
	for i := range list {
		list[i].Content = ""
	}
	c.JSON(http.StatusOK, list)
}

// ModelCategories returns categories with their models.
func (a *API) ModelCategories(c *gin.Context) {
	grouped := a.Content.ModelsByCategory()
	for _, list := range grouped {
		for i := range list {
			list[i].Content = ""
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": a.Content.Categories(),
		"models":     grouped,
	})
}

func (a *API) GetModel(c *gin.Context) {
	model, ok := a.Content.Model(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}
	html, err := services.RenderMarkdown(model.Content)
	if err != nil {
		requestLogger(c).Warn().Err(err).Str("slug", model.Slug).Msg("render failed")
	}
	model.HTML = html
	c.JSON(http.StatusOK, model)
}

// ListGlossary returns glossary entries bucketed by pinyin initial.
func (a *API) ListGlossary(c *gin.Context) {
	g, ok := a.glossary(c)
	if !ok {
		return
	}
	groups := pinyin.Group(g.All(), func(e models.GlossaryEntry) string { return e.Term })
	c.JSON(http.StatusOK, gin.H{
		"initials": pinyin.SortedKeys(groups),
		"groups":   groups,
	})
}

func (a *API) GetGlossaryTerm(c *gin.Context) {
	g, ok := a.glossary(c)
	if !ok {
		return
	}
	entry, found := g.Lookup(c.Param("term"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ListTags returns the tag frequency table.
func (a *API) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, services.AggregateTags(a.Content.Posts()))
}

// TagCloud returns the laid-out cloud with the visitor's selection marked.
func (a *API) TagCloud(c *gin.Context) {
	sel := loadSelection(c)
	c.JSON(http.StatusOK, gin.H{
		"selected": sel.Selected,
		"items":    tagcloud.Layout(services.AggregateTags(a.Content.Posts()), sel.Selected),
	})
}

// SelectTag toggles the visitor's tag filter.
func (a *API) SelectTag(c *gin.Context) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sel := loadSelection(c).Toggle(req.Tag)
	if err := saveSelection(c, sel); err != nil {
		requestLogger(c).Error().Err(err).Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
		return
	}
	c.JSON(http.StatusOK, sel)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
