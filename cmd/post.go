package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/colors"
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <message>",
	Short: "Post a new notification",
	Long: `Post a new notification.

The notification is appended to the active list and, depending on its
variant, recorded in history. Toast notifications auto-dismiss after
their duration; persistent ones stay until dismissed; silent ones go
straight to history without display.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWithApp(runPost),
}

var (
	postType       string
	postVariant    string
	postTitle      string
	postDurationMS int
)

func runPost(a *app.App, cmd *cobra.Command, args []string) error {
	id, err := a.Post(app.PostInput{
		Type:     postType,
		Variant:  postVariant,
		Title:    postTitle,
		Message:  strings.Join(args, " "),
		Duration: time.Duration(postDurationMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	colors.Success("posted " + id)
	return nil
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVar(&postType, "type", "info", "Notification type: success, error, warning, info")
	postCmd.Flags().StringVar(&postVariant, "variant", "toast", "Notification variant: toast, persistent, silent")
	postCmd.Flags().StringVar(&postTitle, "title", "", "Notification title (defaults to the type title for toasts)")
	postCmd.Flags().IntVar(&postDurationMS, "duration", 0, "Toast auto-dismiss delay in milliseconds")
}
