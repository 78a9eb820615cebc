package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/app"
)

// runApp builds the environment and launches the TUI.
func runApp(cmd *cobra.Command, startTest bool) error {
	return withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		noSplash, _ := cmd.Flags().GetBool("no-splash")
		return app.Run(app.Options{
			Deps:        env.deps(),
			SkipWelcome: noSplash,
			StartTest:   startTest,
		})
	})(cmd, nil)
}

func init() {
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
}
