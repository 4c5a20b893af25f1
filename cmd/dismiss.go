package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/colors"
)

// dismissCmd represents the dismiss command
var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an active notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithApp(runDismiss),
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Dismiss all active notifications",
	RunE:  runWithApp(runClear),
}

func runDismiss(a *app.App, cmd *cobra.Command, args []string) error {
	records, err := a.ListHistory(app.HistoryFilter{})
	if err != nil {
		return err
	}
	if err := a.Service.Dismiss(resolveID(records, args[0])); err != nil {
		return err
	}
	colors.Success("dismissed")
	return nil
}

func runClear(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.Service.DismissAll(); err != nil {
		return err
	}
	colors.Success("cleared")
	return nil
}

func init() {
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(clearCmd)
}
