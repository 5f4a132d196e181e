package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/logging"
	"github.com/alexanderramin/reflow/internal/repository"
	"github.com/alexanderramin/reflow/internal/scheduler"
)

// App holds the wiring CLI commands run against.
type App struct {
	Engine *scheduler.Engine
	Log    *logrus.Logger

	// OpenRuns lazily opens the run-history store; the returned closer
	// releases the underlying database.
	OpenRuns func() (repository.RunRepo, func() error, error)

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "reflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var logLevel string
	var noColor bool

	root := &cobra.Command{
		Use:           "reflow",
		Short:         "Finite-capacity production schedule repair",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.Log = logging.New(domain.LogLevel(logLevel))
			app.Engine = scheduler.NewEngine(app.Log)
			if noColor {
				formatter.DisableColor()
			}
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging verbosity (silent|info|debug)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")

	root.AddCommand(
		newRunCmd(app),
		newChangesCmd(app),
		newVerifyCmd(app),
		newHistoryCmd(app),
	)

	return root
}
