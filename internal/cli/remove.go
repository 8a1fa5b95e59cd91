package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/models"
	"github.com/Ryutta/qiita-list/internal/output"
	"github.com/Ryutta/qiita-list/internal/qiita"
)

var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Unstock and unlike items",
	Long: `Remove items from your stocks and likes.

Each selected item gets the actions its flags call for: a stocked item is
unstocked, a liked item is unliked, an item carrying both flags gets both.
A failed action leaves that flag in place; nothing is rolled back.

Examples:
  qiita-list remove --ids c686397e4a0f4f11683d            # One item
  qiita-list remove --ids c686397e4a0f4f11683d,1a2b3c...  # Several items
  qiita-list remove --history                             # Show past removals`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().String("ids", "", "comma separated item ids to remove")
	removeCmd.Flags().Bool("history", false, "show the removal audit log instead of removing")
	removeCmd.Flags().Int("limit", 50, "max audit log entries to show with --history")
}

func runRemove(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter()

	if history, _ := cmd.Flags().GetBool("history"); history {
		limit, _ := cmd.Flags().GetInt("limit")
		return showHistory(printer, limit)
	}

	rawIDs, _ := cmd.Flags().GetString("ids")
	ids := splitIDs(rawIDs)
	if len(ids) == 0 {
		return fmt.Errorf("no item ids given: pass --ids or use --history")
	}
	if !cfg.HasToken() {
		return fmt.Errorf("removal requires an access token: pass --token or set QIITA_ACCESS_TOKEN")
	}

	ctx := cmd.Context()
	client := qiita.NewClient(cfg, logger)
	user, err := resolveUser(ctx, client, nil)
	if err != nil {
		return err
	}

	audit := openAudit()
	if audit != nil {
		defer audit.Close()
	}

	svc := newService(client, audit)
	collection := svc.FetchAll(ctx, user)
	report := svc.Remove(ctx, collection, ids)

	for _, ir := range report.Items {
		printActionResult(printer, ir, models.ActionUnlike, ir.Unlike)
		printActionResult(printer, ir, models.ActionUnstock, ir.Unstock)
	}

	if failed := report.Failures(); len(failed) > 0 {
		printer.Warning("%d of %d item(s) had failed actions", len(failed), len(report.Items))
		return nil
	}
	printer.Success("removed %d item(s)", len(report.Items))
	return nil
}

func printActionResult(printer *output.Printer, ir models.ItemReport, action models.Action, result models.ActionResult) {
	if !result.Attempted {
		return
	}
	title := ir.Title
	if title == "" {
		title = ir.ItemID
	}
	if result.Succeeded {
		printer.Success("%s: %s", action, title)
		return
	}
	printer.Error("%s failed: %s", action, title)
}

func showHistory(printer *output.Printer, limit int) error {
	audit := openAudit()
	if audit == nil {
		return fmt.Errorf("audit log unavailable at %s", cfg.AuditDBPath)
	}
	defer audit.Close()

	removals, err := audit.List(limit)
	if err != nil {
		return fmt.Errorf("reading audit log: %w", err)
	}
	if len(removals) == 0 {
		printer.Info("no recorded removals")
		return nil
	}

	table := output.NewTable([]string{"WHEN", "ACTION", "OK", "TITLE", "ITEM"})
	for _, r := range removals {
		ok := "yes"
		if !r.Succeeded {
			ok = "no"
		}
		table.AddRow([]string{
			r.RemovedAt.Local().Format("2006-01-02 15:04"),
			string(r.Action),
			ok,
			r.Title,
			r.ItemID,
		})
	}
	table.Render()
	return nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
