package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/colors"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old notifications from history",
	Long: `Remove notifications older than the threshold from history.

Active notifications are never removed. Use --dry-run to preview.`,
	RunE: runWithApp(runCleanup),
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification from history",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithApp(runDelete),
}

// clearHistoryCmd represents the clear-history command
var clearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Delete all notifications from history",
	RunE:  runWithApp(runClearHistory),
}

var (
	cleanupDays   int
	cleanupDryRun bool
)

func runCleanup(a *app.App, cmd *cobra.Command, args []string) error {
	removed, err := a.Cleanup(cleanupDays, cleanupDryRun)
	if err != nil {
		return err
	}
	if cleanupDryRun {
		colors.Info(fmt.Sprintf("would remove %d notifications", removed))
		return nil
	}
	colors.Success(fmt.Sprintf("removed %d notifications", removed))
	return nil
}

func runDelete(a *app.App, cmd *cobra.Command, args []string) error {
	records, err := a.ListHistory(app.HistoryFilter{})
	if err != nil {
		return err
	}
	if err := a.Service.DeleteFromHistory(resolveID(records, args[0])); err != nil {
		return err
	}
	colors.Success("deleted")
	return nil
}

func runClearHistory(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.Service.ClearHistory(); err != nil {
		return err
	}
	colors.Success("history cleared")
	return nil
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearHistoryCmd)

	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "Remove notifications older than this many days")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview without removing")
}
