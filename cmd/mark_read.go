package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/colors"
)

// markReadCmd represents the mark-read command
var markReadCmd = &cobra.Command{
	Use:   "mark-read [id]",
	Short: "Mark a notification as read, or all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWithApp(runMarkRead),
}

var markReadAll bool

func runMarkRead(a *app.App, cmd *cobra.Command, args []string) error {
	if markReadAll {
		if err := a.Service.MarkAllAsRead(); err != nil {
			return err
		}
		colors.Success("marked all as read")
		return nil
	}
	if len(args) != 1 {
		return cmd.Usage()
	}
	records, err := a.ListHistory(app.HistoryFilter{})
	if err != nil {
		return err
	}
	if err := a.Service.MarkAsRead(resolveID(records, args[0])); err != nil {
		return err
	}
	colors.Success("marked as read")
	return nil
}

func init() {
	rootCmd.AddCommand(markReadCmd)

	markReadCmd.Flags().BoolVar(&markReadAll, "all", false, "Mark all notifications as read")
}
