package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sadopc/timetracker/internal/config"
	"github.com/sadopc/timetracker/internal/logging"
	"github.com/sadopc/timetracker/internal/store"
	"github.com/sadopc/timetracker/internal/tui"
	"github.com/spf13/cobra"
)

// buildMode is "release" in packaged builds (-ldflags "-X main.buildMode=release").
// Release and development builds use separate database files.
var buildMode = "dev"

var (
	dbPath string
	debug  bool

	cfg     *config.Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "timetracker",
	Short: "Track time spent on named daily tasks",
	Long:  "timetracker keeps per-day task timers in a local SQLite database. Run it without arguments for the terminal UI.",
	// Errors are printed once by main.
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, path, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		return tui.Run(s, cfg, path)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides TIMETRACKER_DB and the config file)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug-level logs")
}

// setup loads the config and starts file logging. A logging failure is not
// fatal; logs are dropped instead.
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir, err := config.Dir()
	if err != nil {
		logging.Discard()
		return nil
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile, err = logging.Init(dir, debug || os.Getenv("TIMETRACKER_DEBUG") != "")
	if err != nil {
		logging.Discard()
	}
	return nil
}

// resolveDBPath picks the database file: --db flag, then TIMETRACKER_DB, then
// db_path from the config, then the per-build default.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if p := os.Getenv("TIMETRACKER_DB"); p != "" {
		return p, nil
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return store.DefaultDBPath(buildMode == "release")
}

// openStore opens the resolved database. Call from subcommands that need it.
func openStore() (*store.Store, string, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, "", fmt.Errorf("resolving database path: %w", err)
	}
	s, err := store.New(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}
	return s, path, nil
}

func main() {
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
