package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/reflow/internal/cli"
	"github.com/alexanderramin/reflow/internal/db"
	"github.com/alexanderramin/reflow/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.reflow/reflow.db
	dbPath := os.Getenv("REFLOW_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".reflow", "reflow.db")
	}

	app := &cli.App{
		OpenRuns: func() (repository.RunRepo, func() error, error) {
			database, err := db.Open(dbPath)
			if err != nil {
				return nil, nil, fmt.Errorf("opening run history: %w", err)
			}
			return repository.NewSQLiteRunRepo(database), database.Close, nil
		},
	}

	// Detect interactive terminal for confirmation prompts and the
	// change browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
