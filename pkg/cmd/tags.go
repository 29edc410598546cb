package cmd

import (
	"fmt"
	"strconv"

	"hundred-minds/pkg/services"
	"hundred-minds/pkg/tagcloud"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print tag frequencies with their cloud layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := services.AggregateTags(newContentStore().Posts())
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Tag", "Count", "Offset", "Rotation", "Scale")
		for _, item := range tagcloud.Layout(tags, "") {
			table.Append(
				item.Tag,
				strconv.Itoa(item.Count),
				fmt.Sprintf("%d,%d", item.Style.XOffset, item.Style.YOffset),
				strconv.Itoa(item.Style.Rotation),
				fmt.Sprintf("%.2f", item.Scale),
			)
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
