package cmd

import (
	"os"

	"hundred-minds/pkg/config"
	"hundred-minds/pkg/logger"
	"hundred-minds/pkg/services"

	"github.com/spf13/cobra"
)

var flagContent string

var rootCmd = &cobra.Command{
	Use:   "hundred-minds",
	Short: "Content backend for the mind-map site",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
		if flagContent != "" {
			config.ContentPath = flagContent
		}
		logger.Init(logger.Config{Level: config.LogLevel, Pretty: config.LogPretty})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "content root (default $CONTENT_PATH or ./content)")
}

func newContentStore() *services.ContentStore {
	return services.NewContentStore(config.PostsPath(), config.ModelsPath(), logger.L())
}

func loadGlossary() (*services.Glossary, error) {
	return services.LoadGlossary(config.GlossaryPath(), logger.L())
}
