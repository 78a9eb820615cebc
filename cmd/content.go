package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect course content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check content files against their schemas",
	Long: `Validate the questionnaire, type cards and course structure.

Uses the built-in content unless --content-dir points elsewhere.`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		if err := env.svc.ValidateContent(); err != nil {
			// Authors need the detail; it names content files, not user data.
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return err
		}
		qs, _ := env.svc.Questions()
		types, _ := env.svc.Types()
		course, _ := env.svc.Course()
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d pytań, %d typów, %d lekcji\n",
			len(qs), len(types), course.TotalLessons())
		return nil
	}),
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
}
