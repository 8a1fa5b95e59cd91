package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/commands"
	"github.com/Ryutta/qiita-list/internal/output"
	"github.com/Ryutta/qiita-list/internal/qiita"
)

var exportCmd = &cobra.Command{
	Use:   "export [user]",
	Short: "Export items as a bookmarks HTML file",
	Long: `Export the merged collection as a Netscape bookmarks HTML file that any
browser can import. Stocked and liked items land in their own folders.

Examples:
  qiita-list export --out bookmarks.html
  qiita-list export Ryutta --out ryutta.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "qiita-bookmarks.html", "output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := output.NewPrinter()

	client := qiita.NewClient(cfg, logger)
	user, err := resolveUser(ctx, client, args)
	if err != nil {
		return err
	}

	collection := newService(client, nil).FetchAll(ctx, user)

	out, _ := cmd.Flags().GetString("out")
	if err := commands.NewExportCommand(collection).Execute(out); err != nil {
		return err
	}

	printer.Success("exported %d item(s) to %s", collection.Len(), out)
	return nil
}
