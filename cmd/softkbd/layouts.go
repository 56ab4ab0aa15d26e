package softkbd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/layout"
	"github.com/dasdy/softkbd/model"
)

var layoutsFile string

func layoutIDs(layouts []*model.Layout) []string {
	ids := make([]string, 0, len(layouts))
	for _, l := range layouts {
		ids = append(ids, l.ID)
	}

	return ids
}

func printLayouts(w io.Writer, layouts []*model.Layout) {
	for _, l := range layouts {
		fmt.Fprintf(w, "%s\trows=%d\tkeys=%d\n", l.ID, l.Rows().Len(), l.KeyCount())
	}
}

// layoutsCmd represents the layouts command.
var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List layouts of a layout file",
	Long:  `Parse the layout file and print every layout id with its row and key counts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		layouts, err := layout.Load(layoutsFile)
		if err != nil {
			return err
		}

		printLayouts(cmd.OutOrStdout(), layouts)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)

	layoutsCmd.Flags().StringVarP(&layoutsFile, "layout-file", "f", "layouts/default.yaml",
		"Path to the layout file, looked up in the data dir when relative")
}
