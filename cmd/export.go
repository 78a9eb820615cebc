package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/apperr"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the user's progress record as JSON",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		var buf bytes.Buffer
		if err := env.store.Export(cmd.Context(), env.cfg.UserID, &buf); err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return apperr.Data("export_write", "Nie można zapisać pliku eksportu.", err).With("path", path)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Zapisano %s\n", path)
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
