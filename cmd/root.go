// Package cmd implements the bitfun-notify command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitfun/appstate/internal/app"
	"github.com/bitfun/appstate/internal/colors"
	"github.com/bitfun/appstate/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bitfun-notify",
	Short: "Notification center for the bitfun desktop app.",
	Long: `Notification center for the bitfun desktop app.

Posts, lists, and manages notifications backed by the persisted
application state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// runWithApp wraps a command handler with application lifecycle management.
func runWithApp(fn func(a *app.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.Init()
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Shutdown(); err != nil {
				colors.Warning("shutdown: " + err.Error())
			}
		}()
		return fn(a, cmd, args)
	}
}
