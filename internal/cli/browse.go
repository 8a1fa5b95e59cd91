package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/output"
	"github.com/Ryutta/qiita-list/internal/qiita"
	"github.com/Ryutta/qiita-list/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [user]",
	Short: "Browse items interactively",
	Long: `Open an interactive browser over the merged collection.

Keys:
  /      search
  Space  mark item
  d      remove marked items (unstock + unlike)
  q      quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := output.NewPrinter()

	client := qiita.NewClient(cfg, logger)
	user, err := resolveUser(ctx, client, args)
	if err != nil {
		return err
	}

	audit := openAudit()
	if audit != nil {
		defer audit.Close()
	}

	svc := newService(client, audit)
	collection := svc.FetchAll(ctx, user)
	if collection.Len() == 0 {
		printer.Info("no items found for %s", user)
		return nil
	}

	return ui.NewApp(svc, collection).Run()
}
