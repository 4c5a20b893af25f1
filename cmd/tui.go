package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/tui"
)

// centerCmd represents the center command
var centerCmd = &cobra.Command{
	Use:   "center",
	Short: "Open the interactive notification center",
	Long: `Open the notification center in a full-screen terminal UI.

Navigate the history with j/k, mark notifications as read with r,
dismiss with d, and delete from history with x.`,
	Args: cobra.NoArgs,
	RunE: runWithApp(runCenter),
}

func runCenter(a *app.App, cmd *cobra.Command, args []string) error {
	program := tea.NewProgram(tui.New(a.Notifications), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("notification center: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(centerCmd)
}
