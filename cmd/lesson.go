package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Browse the course and mark lessons complete",
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all lessons with their completion state",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		course, err := env.svc.Course()
		if err != nil {
			return err
		}
		rec, err := env.svc.Record(cmd.Context(), env.cfg.UserID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		refs := course.Lessons()
		i := 0
		for bi, block := range course {
			fmt.Fprintf(out, "%s Blok %d: %s\n", block.Emoji, bi+1, block.Title)
			for mi, module := range block.Modules {
				fmt.Fprintf(out, "   Moduł %d: %s\n", mi+1, module.Title)
				for range module.Lessons {
					ref := refs[i]
					mark := "⬜"
					if rec.Progress.HasLesson(ref.ID) {
						mark = "✅"
					}
					fmt.Fprintf(out, "      %s %-10s %s\n", mark, ref.ID, ref.Title)
					i++
				}
			}
		}

		done, total, pct := course.Overall(rec.Progress.CompletedLessons)
		fmt.Fprintf(out, "\n%d/%d lekcji (%.1f%%)\n", done, total, pct)
		return nil
	}),
}

var lessonCompleteCmd = &cobra.Command{
	Use:   "complete <lesson-id>",
	Short: "Mark a lesson as completed (e.g. b1_m1_l1)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		res, err := env.svc.CompleteLesson(cmd.Context(), env.cfg.UserID, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.NewlyCompleted {
			fmt.Fprintf(out, "Lekcja %q była już ukończona.\n", res.Lesson.Title)
			return nil
		}
		fmt.Fprintf(out, "✅ Ukończono: %s\n", res.Lesson.Title)
		for _, a := range res.NewAchievements {
			fmt.Fprintf(out, "%s Nowe osiągnięcie: %s\n", a.Icon, a.Name)
		}
		return nil
	}),
}

func init() {
	lessonCmd.AddCommand(lessonListCmd)
	lessonCmd.AddCommand(lessonCompleteCmd)
}
