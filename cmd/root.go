package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/config"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/logger"
	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/screen"
)

var rootCmd = &cobra.Command{
	Use:   "brainventure",
	Short: "Neuroleadership course and leader-type test",
	Long: `BrainVenture: a terminal course in neuroleadership.

Take the neuroleader type test, work through the course lessons and
collect achievements. Progress is kept in one JSON file per user.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the CLI and prints failures in a form safe for end users.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		fmt.Fprintln(os.Stderr, "Błąd:", apperr.UserMessage(err))
	} else {
		// Usage errors from cobra and flag parsing.
		fmt.Fprintln(os.Stderr, "Błąd:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/brainventure/config.yaml)")
	pf.String("data-dir", "", "Directory holding user_files/ and logs/ (overrides BRAINVENTURE_DATA_DIR)")
	pf.String("content-dir", "", "Directory with course content overriding the built-in files")
	pf.String("user", "", "User id whose progress is used")
	pf.String("tie-breaker", "", "How tied test results are resolved: random or priority")
	pf.Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(versionCmd)
}

// appEnv is everything a command needs, built from layered configuration.
type appEnv struct {
	cfg   *config.Config
	log   *logger.Logger
	store *progress.Store
	svc   *learning.Service
}

// deps adapts the environment for the interactive screens.
func (rt *appEnv) deps() *screen.Deps {
	return &screen.Deps{Service: rt.svc, UserID: rt.cfg.UserID, Log: rt.log}
}

// loadConfig applies defaults, file, environment and then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return nil, err
	}

	flags := &config.Config{}
	flags.DataDir, _ = cmd.Flags().GetString("data-dir")
	flags.ContentDir, _ = cmd.Flags().GetString("content-dir")
	flags.UserID, _ = cmd.Flags().GetString("user")
	flags.TieBreaker, _ = cmd.Flags().GetString("tie-breaker")
	flags.Log.Debug, _ = cmd.Flags().GetBool("debug")
	cfg.Merge(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrap builds the environment. Logs always go to the log file so that
// stdout stays clean for the TUI and for export.
func bootstrap(cmd *cobra.Command) (*appEnv, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, File: cfg.LogFile(), Debug: cfg.Log.Debug})
	if err != nil {
		return nil, nil, apperr.Configuration("log_file", "Nie można otworzyć pliku logów.", err)
	}
	log = log.With("command", cmd.CommandPath())

	repo, err := content.Open(cfg.ContentDir, log)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}

	store := progress.NewStore(cfg.DataDir, log)
	tb := assessment.TieBreakerByName(cfg.TieBreaker)
	svc := learning.NewService(store, repo, tb, log)

	log.Debug("environment ready", "user_id", cfg.UserID, "data_dir", cfg.DataDir, "tie_breaker", tb.Name())
	return &appEnv{cfg: cfg, log: log, store: store, svc: svc}, log.Sync, nil
}

// withEnv adapts an environment-aware handler to cobra's RunE and logs
// failures in full before they reach the user-facing printer.
func withEnv(fn func(cmd *cobra.Command, args []string, rt *appEnv) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := fn(cmd, args, rt); err != nil {
			if apperr.IsKind(err, apperr.KindValidation) {
				rt.log.Info("command rejected", "error", err)
			} else {
				rt.log.Error("command failed", "error", err, "kind", string(apperr.KindOf(err)))
			}
			return err
		}
		return nil
	}
}
