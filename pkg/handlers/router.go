package handlers

import (
	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/metrics"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries what NewRouter needs besides the API itself.
type RouterConfig struct {
	SessionName   string
	SessionSecret string
	Log           *logger.Logger
}

func NewRouter(api *API, cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = logger.L()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))

	// Session Setup
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 86400 * 30})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/search", api.SearchIndex)
		apiGroup.GET("/search/query", api.Search)

		apiGroup.GET("/mind-map", api.ListPosts)
		apiGroup.GET("/mind-map/:slug", api.GetPost)

		apiGroup.GET("/tags", api.ListTags)
		apiGroup.GET("/tags/cloud", api.TagCloud)
		apiGroup.POST("/tags/select", api.SelectTag)

		apiGroup.GET("/models", api.ListModels)
		apiGroup.GET("/models/categories", api.ModelCategories)
		apiGroup.GET("/models/:slug", api.GetModel)

		apiGroup.GET("/glossary", api.ListGlossary)
		apiGroup.GET("/glossary/:term", api.GetGlossaryTerm)
	}

	return r
}
