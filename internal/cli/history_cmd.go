package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/repository"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted reflow runs",
	}
	cmd.AddCommand(newHistoryListCmd(app), newHistoryShowCmd(app))
	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closer, err := app.OpenRuns()
			if err != nil {
				return err
			}
			defer closer()

			runs, err := repo.List(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No saved runs."))
				return nil
			}

			headers := []string{"Run", "Created", "Input", "Orders", "Centers", "Changes"}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					formatter.TruncID(r.ID),
					formatter.ShortStamp(r.CreatedAt),
					r.InputPath,
					fmt.Sprintf("%d", r.WorkOrderCount),
					fmt.Sprintf("%d", r.WorkCenterCount),
					fmt.Sprintf("%d", r.ChangeCount),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its change log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closer, err := app.OpenRuns()
			if err != nil {
				return err
			}
			defer closer()

			run, err := findRun(repo, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("Run "+run.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "  Created:  %s\n", formatter.ShortStamp(run.CreatedAt))
			fmt.Fprintf(cmd.OutOrStdout(), "  Input:    %s\n", run.InputPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  Scope:    %d work orders on %d work centers\n",
				run.WorkOrderCount, run.WorkCenterCount)
			for _, line := range run.Explanation {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatter.Dim(line))
			}
			if len(run.Changes) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprint(cmd.OutOrStdout(), renderChangeTable(run.Changes))
			}
			return nil
		},
	}
}

// findRun resolves a run by full id or unambiguous prefix.
func findRun(repo repository.RunRepo, id string) (*domain.ReflowRun, error) {
	full, err := repo.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if full != nil {
		return full, nil
	}

	runs, err := repo.List(context.Background(), 0)
	if err != nil {
		return nil, err
	}
	var match *domain.ReflowRun
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return repo.Get(context.Background(), match.ID)
}
