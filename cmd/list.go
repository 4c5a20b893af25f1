package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/notify"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notification history",
	Long: `List notification history, newest first.

OPTIONS:
    --status <status>   Filter by status: active, dismissed, completed, failed, cancelled
    --type <type>       Filter by type: success, error, warning, info
    --unread            Only unread notifications`,
	RunE: runWithApp(runList),
}

var (
	listStatus string
	listType   string
	listUnread bool
)

func runList(a *app.App, cmd *cobra.Command, args []string) error {
	records, err := a.ListHistory(app.HistoryFilter{
		Status:     listStatus,
		Type:       listType,
		UnreadOnly: listUnread,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no notifications")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTYPE\tSTATUS\tREAD\tTITLE\tMESSAGE")
	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(record.ID),
			record.Timestamp.Format(time.DateTime),
			record.Type,
			record.Status,
			readMark(record.Read),
			record.Title,
			record.Message,
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func readMark(read bool) string {
	if read {
		return "read"
	}
	return "unread"
}

// resolveID expands a short id prefix to a full history record id.
func resolveID(records []notify.Record, id string) string {
	for _, record := range records {
		if record.ID == id || shortID(record.ID) == id {
			return record.ID
		}
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by type")
	listCmd.Flags().BoolVar(&listUnread, "unread", false, "Only unread notifications")
}
