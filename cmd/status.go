package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/notify"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show notification center counts",
	RunE:  runWithApp(runStatus),
}

var statusCountOnly bool

func runStatus(a *app.App, cmd *cobra.Command, args []string) error {
	summary, err := a.Status()
	if err != nil {
		return err
	}
	if statusCountOnly {
		fmt.Println(summary.Unread)
		return nil
	}
	fmt.Printf("active: %d\n", summary.Active)
	fmt.Printf("unread: %d\n", summary.Unread)
	fmt.Printf("history: %d\n", summary.History)
	for _, typ := range []notify.Type{notify.TypeError, notify.TypeWarning, notify.TypeSuccess, notify.TypeInfo} {
		if count := summary.CountByType[typ]; count > 0 {
			fmt.Printf("  %s: %d\n", typ, count)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusCountOnly, "count-only", false, "Print only the unread count")
}
