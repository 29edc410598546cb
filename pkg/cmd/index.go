package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hundred-minds/pkg/search"

	"github.com/spf13/cobra"
)

var flagIndexOut string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Write the search index as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGlossary()
		if err != nil {
			return err
		}
		docs := search.BuildFromStore(newContentStore(), g)

		var out io.Writer = cmd.OutOrStdout()
		if flagIndexOut != "" {
			f, err := os.Create(flagIndexOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", flagIndexOut, err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(docs)
	},
}

func init() {
	indexCmd.Flags().StringVarP(&flagIndexOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(indexCmd)
}
