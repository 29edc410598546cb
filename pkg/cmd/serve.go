package cmd

import (
	"hundred-minds/pkg/config"
	"hundred-minds/pkg/handlers"
	"hundred-minds/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	gin.SetMode(config.GinMode)
	log := logger.L()

	api := &handlers.API{
		Content:     newContentStore(),
		Glossary:    loadGlossary,
		SearchLimit: config.SearchLimit,
	}
	r := handlers.NewRouter(api, handlers.RouterConfig{
		SessionName:   config.SessionName,
		SessionSecret: config.SessionSecret,
		Log:           log,
	})

	log.Info().
		Str("addr", config.ListenAddr()).
		Str("content", config.ContentPath).
		Msg("server starting")
	return r.Run(config.ListenAddr())
}
