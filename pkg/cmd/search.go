package cmd

import (
	"fmt"
	"strings"

	"hundred-minds/pkg/config"
	"hundred-minds/pkg/search"

	"github.com/spf13/cobra"
)

var flagSearchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search articles and glossary terms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGlossary()
		if err != nil {
			return err
		}
		limit := flagSearchLimit
		if limit <= 0 {
			limit = config.SearchLimit
		}

		engine := search.NewEngine(search.BuildFromStore(newContentStore(), g), search.DefaultOptions())
		results := engine.Search(strings.Join(args, " "), limit)
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results.")
			return nil
		}

		articles, glossary := search.Group(results)
		printSection := func(title string, rs []search.Result) {
			if len(rs) == 0 {
				return
			}
			fmt.Fprintf(out, "%s\n", title)
			for _, r := range rs {
				fmt.Fprintf(out, "  %-24s %.4f  %s\n", r.Document.Title, r.Score, r.Document.Path)
			}
		}
		printSection("Articles", articles)
		printSection("Glossary", glossary)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 0, "maximum results (default $SEARCH_LIMIT)")
	rootCmd.AddCommand(searchCmd)
}
