package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/apperr"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress",
	Long: `Clear completed lessons, test history, the stored leader type and
achievements. The profile and preferences are kept.`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return apperr.Validation("reset_unconfirmed", "Dodaj --yes, aby potwierdzić wyzerowanie postępów.")
		}
		if _, err := env.svc.ResetProgress(cmd.Context(), env.cfg.UserID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Postępy użytkownika %s zostały wyzerowane.\n", env.cfg.UserID)
		return nil
	}),
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
