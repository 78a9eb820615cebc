package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/progress"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List earned and locked achievements",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		rec, err := env.svc.Record(cmd.Context(), env.cfg.UserID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-4s  %-28s  %-10s  %s\n", "", "Nazwa", "Zdobyto", "Opis")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, a := range rec.Achievements {
			fmt.Fprintf(out, "%-4s  %-28s  %-10s  %s\n", a.Icon, a.Name, a.EarnedAt.String(), a.Description)
		}
		locked := 0
		for _, def := range progress.Catalog() {
			if rec.HasAchievement(def.ID()) {
				continue
			}
			locked++
			fmt.Fprintf(out, "%-4s  %-28s  %-10s  %s\n", "🔒", def.Name, "—", def.Description)
		}

		fmt.Fprintf(out, "\n%d zdobyte, %d do zdobycia\n", len(rec.Achievements), locked)
		return nil
	}),
}
