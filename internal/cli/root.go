// Package cli contains all CLI commands for qiita-list
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ryutta/qiita-list/internal/config"
	"github.com/Ryutta/qiita-list/internal/qiita"
	"github.com/Ryutta/qiita-list/internal/repository"
	"github.com/Ryutta/qiita-list/internal/service"
)

var (
	tokenFlag   string
	verbose     bool
	auditDBPath string
	cfg         *config.Config
	logger      *slog.Logger
	version     = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qiita-list",
	Short: "List and manage your Qiita stocks and likes",
	Long: `qiita-list retrieves a user's stocked and liked Qiita items and merges
them into a single collection. Liked items fall back through several
acquisition strategies when the primary API is unavailable, so a partial
listing beats an empty one.

Example usage:
  qiita-list list Ryutta           # List a user's items in a table
  qiita-list list --search golang  # Filter your own items (token required)
  qiita-list browse                # Interactive browser
  qiita-list remove --ids <id>     # Unstock/unlike an item
  qiita-list export --out out.html # Netscape bookmarks export`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "personal access token (default: QIITA_ACCESS_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&auditDBPath, "audit-db", "", "removal audit database path (default: ~/.qiita-list/audit.db)")
}

// initConfig builds the logger and loads environment configuration.
func initConfig() error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg = config.NewConfig()
	if tokenFlag != "" {
		cfg = cfg.WithToken(tokenFlag)
	}
	if auditDBPath != "" {
		cfg = cfg.WithAuditDBPath(auditDBPath)
	}

	logger.Debug("configuration loaded",
		"api_base", cfg.APIBase,
		"has_token", cfg.HasToken(),
		"max_pages", cfg.MaxPages,
	)

	return nil
}

// resolveUser returns the target user: the positional argument when given,
// otherwise the owner of the access token.
func resolveUser(ctx context.Context, client *qiita.Client, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !cfg.HasToken() {
		return "", fmt.Errorf("no user given and no token to resolve one: pass a user id or set QIITA_ACCESS_TOKEN")
	}
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving token owner: %w", err)
	}
	return user, nil
}

// newService wires a collection service over the fallback coordinator.
func newService(client *qiita.Client, audit repository.AuditLog) *service.CollectionService {
	return service.NewCollectionService(qiita.NewCoordinator(client), client, audit, logger)
}

// openAudit opens the removal audit log. A broken audit store only costs
// history, never the removal itself, so failures degrade to nil.
func openAudit() repository.AuditLog {
	audit, err := repository.NewSQLiteAuditLog(cfg.AuditDBPath)
	if err != nil {
		logger.Warn("audit log unavailable, removals will not be recorded", "path", cfg.AuditDBPath, "error", err)
		return nil
	}
	return audit
}
