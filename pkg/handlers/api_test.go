package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/models"
	"hundred-minds/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quietLog = logger.New(logger.Config{Level: "disabled"})

func setupContent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"mind-map/first-principles.md": "---\ntitle: 第一性原理\ndate: 2024-02-01\ntags: [物理学, 思维]\n---\n# 第一性原理\n\n回到最基本的事实。",
		"mind-map/inversion.md":        "---\ntitle: 逆向思维\ndate: 2024-01-01\ntags: [数学, 思维]\n---\n反过来想。",
		"models/compound.mdx":          "---\ntitle: 复利\ncategory: 经济学\ndifficulty: 进阶\n---\n利滚利。",
		"glossary.yaml":                "- term: 熵增\n  definition: 系统趋向无序\n- term: 复利\n  definition: 利滚利\n- term: API\n  definition: 应用程序接口\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouterAt(setupContent(t))
}

func newRouterAt(root string) *gin.Engine {
	api := &API{
		Content: services.NewContentStore(filepath.Join(root, "mind-map"), filepath.Join(root, "models"), quietLog),
		Glossary: func() (*services.Glossary, error) {
			return services.LoadGlossary(filepath.Join(root, "glossary.yaml"), quietLog)
		},
		SearchLimit: 20,
	}
	return NewRouter(api, RouterConfig{SessionName: "test", SessionSecret: "secret", Log: quietLog})
}

func do(r http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndRequestID(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestSearchIndex(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/search", "")
	require.Equal(t, http.StatusOK, w.Code)

	var docs []models.SearchDocument
	decode(t, w, &docs)
	require.Len(t, docs, 5)
	assert.Equal(t, models.KindArticle, docs[0].Type)
	assert.Equal(t, "first-principles", docs[0].ID)
	assert.Equal(t, "/mind-map/first-principles", docs[0].Path)
	assert.Equal(t, models.KindGlossary, docs[4].Type)
}

type searchResponse struct {
	Query    string `json:"query"`
	Total    int    `json:"total"`
	Articles []struct {
		Document models.SearchDocument `json:"document"`
	} `json:"articles"`
	Glossary []struct {
		Document models.SearchDocument `json:"document"`
	} `json:"glossary"`
}

func TestSearchQuery(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/search/query?q="+url.QueryEscape("第一性"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	decode(t, w, &resp)
	assert.Equal(t, "第一性", resp.Query)
	require.NotEmpty(t, resp.Articles)
	assert.Equal(t, "first-principles", resp.Articles[0].Document.ID)

	w = do(r, http.MethodGet, "/api/search/query?q="+url.QueryEscape("熵增"), "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = searchResponse{}
	decode(t, w, &resp)
	assert.Empty(t, resp.Articles)
	require.Len(t, resp.Glossary, 1)
	assert.Equal(t, "熵增", resp.Glossary[0].Document.Term)

	w = do(r, http.MethodGet, "/api/search/query?q=zzz_no_match", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = searchResponse{}
	decode(t, w, &resp)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Articles)
	assert.NotNil(t, resp.Glossary)
}

func TestSearchQuery_InvalidLimit(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/search/query?q=abc&limit=1000", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/search/query?q=abc&limit=x", "").Code)
}

func TestSearch_GlossaryError(t *testing.T) {
	root := setupContent(t)
	api := &API{
		Content:     services.NewContentStore(filepath.Join(root, "mind-map"), filepath.Join(root, "models"), quietLog),
		Glossary:    func() (*services.Glossary, error) { return nil, errors.New("boom") },
		SearchLimit: 20,
	}
	r := NewRouter(api, RouterConfig{SessionName: "test", SessionSecret: "secret", Log: quietLog})

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/search", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/glossary", "").Code)
}

type postList struct {
	Tag   string        `json:"tag"`
	Count int           `json:"count"`
	Posts []models.Post `json:"posts"`
}

func TestListPostsAndGetPost(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/mind-map", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list postList
	decode(t, w, &list)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "first-principles", list.Posts[0].Slug)
	assert.Empty(t, list.Posts[0].Content)

	w = do(r, http.MethodGet, "/api/mind-map?tag="+url.QueryEscape("数学"), "")
	list = postList{}
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "inversion", list.Posts[0].Slug)

	w = do(r, http.MethodGet, "/api/mind-map/first-principles", "")
	require.Equal(t, http.StatusOK, w.Code)
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, "第一性原理", post.Title)
	assert.Contains(t, post.HTML, "<h1")

	w = do(r, http.MethodGet, "/api/mind-map/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post not found")
}

func TestTagSelectionFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/tags/select", `{"tag":"物理学"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = do(r, http.MethodGet, "/api/mind-map", "", cookies...)
	var list postList
	decode(t, w, &list)
	assert.Equal(t, "物理学", list.Tag)
	assert.Equal(t, 1, list.Count)

	w = do(r, http.MethodGet, "/api/tags/cloud", "", cookies...)
	var cloud struct {
		Selected string `json:"selected"`
		Items    []struct {
			Tag      string `json:"tag"`
			Selected bool   `json:"selected"`
		} `json:"items"`
	}
	decode(t, w, &cloud)
	assert.Equal(t, "物理学", cloud.Selected)
	require.Len(t, cloud.Items, 3)
	assert.Equal(t, "思维", cloud.Items[0].Tag)
	for _, it := range cloud.Items {
		assert.Equal(t, it.Tag == "物理学", it.Selected, it.Tag)
	}

	// Selecting the same tag again clears the filter.
	w = do(r, http.MethodPost, "/api/tags/select", `{"tag":"物理学"}`, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	cookies = w.Result().Cookies()

	w = do(r, http.MethodGet, "/api/mind-map", "", cookies...)
	list = postList{}
	decode(t, w, &list)
	assert.Empty(t, list.Tag)
	assert.Equal(t, 2, list.Count)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/tags/select", `not json`).Code)
}

func TestListTags(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/tags", "")
	var tags []models.TagCount
	decode(t, w, &tags)
	assert.Equal(t, []models.TagCount{
		{Tag: "思维", Count: 2},
		{Tag: "物理学", Count: 1},
		{Tag: "数学", Count: 1},
	}, tags)
}

func TestModels(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/models", "")
	var list []models.Model
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, models.DifficultyIntermediate, list[0].Difficulty)

	w = do(r, http.MethodGet, "/api/models/categories", "")
	var cats struct {
		Categories []string                  `json:"categories"`
		Models     map[string][]models.Model `json:"models"`
	}
	decode(t, w, &cats)
	assert.Equal(t, []string{"经济学"}, cats.Categories)
	assert.Len(t, cats.Models["经济学"], 1)

	w = do(r, http.MethodGet, "/api/models/compound", "")
	require.Equal(t, http.StatusOK, w.Code)
	var m models.Model
	decode(t, w, &m)
	assert.Equal(t, "复利", m.Title)
	assert.Contains(t, m.HTML, "利滚利")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/models/nope", "").Code)
}

func TestGlossary(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/glossary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Initials []string                          `json:"initials"`
		Groups   map[string][]models.GlossaryEntry `json:"groups"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []string{"A", "F", "S"}, resp.Initials)
	assert.Equal(t, "熵增", resp.Groups["S"][0].Term)

	w = do(r, http.MethodGet, "/api/glossary/"+url.PathEscape("复利"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var entry models.GlossaryEntry
	decode(t, w, &entry)
	assert.Equal(t, "利滚利", entry.Definition)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/glossary/"+url.PathEscape("没有"), "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodGet, "/api/mind-map", "")

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hundred_minds_content_loads_total")
}

func TestSearchQuery_TotalCountsBeforeLimit(t *testing.T) {
	root := setupContent(t)
	for _, name := range []string{"margin-a.md", "margin-b.md"} {
		path := filepath.Join(root, "mind-map", name)
		require.NoError(t, os.WriteFile(path, []byte("---\ntitle: 安全边际\n---\n"), 0644))
	}
	r := newRouterAt(root)

	w := do(r, http.MethodGet, "/api/search/query?limit=1&q="+url.QueryEscape("安全边际"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Articles, 1)
	assert.Empty(t, resp.Glossary)
}

func TestGetPost_PercentSlug(t *testing.T) {
	root := setupContent(t)
	path := filepath.Join(root, "mind-map", "100%.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: 百分百\n---\n全力以赴"), 0644))
	r := newRouterAt(root)

	w := do(r, http.MethodGet, "/api/mind-map/"+url.PathEscape("100%"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, "100%", post.Slug)
	assert.Equal(t, "百分百", post.Title)
}
