package cmd

import (
	"fmt"
	"strings"

	"hundred-minds/pkg/services"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	flagShowWidth int
	flagShowRaw   bool
)

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Render a post or model in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newContentStore()

		var title, description, body string
		if post, ok := store.Post(args[0]); ok {
			if flagShowRaw {
				data, err := services.ExportPost(post)
				return writeRaw(cmd, data, err)
			}
			title, description, body = post.Title, post.Description, post.Content
			if len(post.Tags) > 0 {
				description += "\n\n`#" + strings.Join(post.Tags, "` `#") + "`"
			}
		} else if model, ok := store.Model(args[0]); ok {
			if flagShowRaw {
				data, err := services.ExportModel(model)
				return writeRaw(cmd, data, err)
			}
			title, description, body = model.Icon+" "+model.Title, model.Description, model.Content
		} else {
			return fmt.Errorf("%s: not found", args[0])
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(flagShowWidth),
		)
		if err != nil {
			return err
		}
		out, err := r.Render(fmt.Sprintf("# %s\n\n%s\n\n%s\n", title, description, body))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	showCmd.Flags().IntVarP(&flagShowWidth, "width", "w", 80, "word wrap width")
	showCmd.Flags().BoolVar(&flagShowRaw, "raw", false, "print the normalized source file instead of rendering it")
	rootCmd.AddCommand(showCmd)
}

func writeRaw(cmd *cobra.Command, data []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
