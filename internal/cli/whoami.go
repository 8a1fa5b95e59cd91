package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/qiita"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user the access token belongs to",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !cfg.HasToken() {
		return fmt.Errorf("no access token: pass --token or set QIITA_ACCESS_TOKEN")
	}

	client := qiita.NewClient(cfg, logger)
	user, err := client.AuthenticatedUser(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), user)
	return nil
}
