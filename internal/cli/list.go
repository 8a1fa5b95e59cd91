package cli

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/models"
	"github.com/Ryutta/qiita-list/internal/output"
	"github.com/Ryutta/qiita-list/internal/qiita"
)

var listCmd = &cobra.Command{
	Use:     "list [user]",
	Aliases: []string{"ls"},
	Short:   "List stocked and liked items",
	Long: `List a user's stocked and liked items as a merged collection.

Without a user argument the token owner's items are listed.

Examples:
  qiita-list list Ryutta           # Another user's items
  qiita-list list                  # Your own items (token required)
  qiita-list list --search docker  # Filter by title, URL or tag
  qiita-list list --json           # Output as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("search", "s", "", "filter by title, URL or tag substring")
	listCmd.Flags().Bool("json", false, "output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := output.NewPrinter()

	client := qiita.NewClient(cfg, logger)
	user, err := resolveUser(ctx, client, args)
	if err != nil {
		return err
	}

	collection := newService(client, nil).FetchAll(ctx, user)

	query, _ := cmd.Flags().GetString("search")
	items := collection.Items()
	if query != "" {
		items = collection.Search(query)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		printer.Info("no items found for %s", user)
		return nil
	}

	table := output.NewTable([]string{"FLAGS", "TITLE", "AUTHOR", "LIKES", "URL"})
	for _, item := range items {
		table.AddRow([]string{
			itemFlags(item),
			item.Title,
			item.AuthorID,
			strconv.Itoa(item.LikesCount),
			item.URL,
		})
	}
	table.Render()
	printer.Info("%d item(s)", len(items))
	return nil
}

func itemFlags(item models.Item) string {
	switch {
	case item.Stocked && item.Liked:
		return "S+L"
	case item.Stocked:
		return "S"
	default:
		return "L"
	}
}
