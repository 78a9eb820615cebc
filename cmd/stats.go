package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		d, err := env.svc.Dashboard(cmd.Context(), env.cfg.UserID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Kurs:         %d/%d lekcji (%.1f%%)\n", d.Completed, d.Total, d.Percent)
		for _, b := range d.Blocks {
			fmt.Fprintf(out, "  Blok %d:     %d/%d (%.1f%%)\n", b.Block, b.Completed, b.Total, b.Percent)
		}
		if d.NextLesson != nil {
			fmt.Fprintf(out, "Następna:     %s (%s)\n", d.NextLesson.Title, d.NextLesson.ID)
		}
		if d.Type != nil {
			fmt.Fprintf(out, "Typ:          %s %s\n", d.Type.Icon, d.Type.Name)
		} else {
			fmt.Fprintln(out, "Typ:          jeszcze nieznany (brainventure take)")
		}
		fmt.Fprintf(out, "Testy:        %d\n", len(d.Record.Progress.TestsTaken))
		fmt.Fprintf(out, "Osiągnięcia:  %d\n", len(d.Record.Achievements))
		if la := d.Record.Progress.LastActivity; la != nil {
			fmt.Fprintf(out, "Aktywność:    %s\n", *la)
		}
		return nil
	}),
}
