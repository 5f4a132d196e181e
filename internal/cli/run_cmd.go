package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/loader"
)

func newRunCmd(app *App) *cobra.Command {
	var outPath string
	var save, force bool

	cmd := &cobra.Command{
		Use:   "run <input.json>",
		Short: "Reflow a schedule payload and emit the repaired schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			input, err := loader.Decode(payload)
			if err != nil {
				return err
			}

			result, err := app.Engine.Reflow(*input)
			if err != nil {
				return err
			}
			out := loader.BuildOutput(payload, result)

			// With -o the table goes to stdout and the JSON to the file;
			// without it the JSON owns stdout and the table moves aside.
			summaryW := cmd.OutOrStdout()
			if outPath == "" {
				summaryW = cmd.ErrOrStderr()
				if err := loader.WriteOutput(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				if err := confirmOverwrite(app, outPath, force); err != nil {
					return err
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				if err := loader.WriteOutput(f, out); err != nil {
					return err
				}
			}

			fmt.Fprintln(summaryW, formatter.Header("Reflow Results"))
			fmt.Fprintf(summaryW, "  Work orders: %d (%d changed)\n", len(out.UpdatedWorkOrders), len(out.Changes))
			fmt.Fprintf(summaryW, "  Work centers: %d\n", len(input.WorkCenters))
			if len(result.Changes) > 0 {
				fmt.Fprint(summaryW, renderChangeTable(result.Changes))
			} else {
				fmt.Fprintln(summaryW, formatter.Dim("  No changes needed."))
			}
			for _, line := range result.Explanation {
				fmt.Fprintf(summaryW, "  %s\n", formatter.Dim(line))
			}

			if save {
				if err := saveRun(app, args[0], input, result, out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the output payload to a file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "Persist this run to the history store")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the output file without confirmation")

	return cmd
}

// confirmOverwrite asks before clobbering an existing file. Non-interactive
// sessions proceed; scripted callers pass --force to be explicit.
func confirmOverwrite(app *App, path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return nil
	}

	overwrite := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Overwrite %s?", path)).
			Value(&overwrite),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if !overwrite {
		return fmt.Errorf("aborted: %s exists", path)
	}
	return nil
}

func saveRun(app *App, inputPath string, input *contract.ReflowInput, result *contract.ReflowResult, out *loader.Output) error {
	if app.OpenRuns == nil {
		return fmt.Errorf("run history store is not configured")
	}
	repo, closer, err := app.OpenRuns()
	if err != nil {
		return err
	}
	defer closer()

	var buf bytes.Buffer
	if err := loader.WriteOutput(&buf, out); err != nil {
		return err
	}
	run := &domain.ReflowRun{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		InputPath:       inputPath,
		WorkOrderCount:  len(input.WorkOrders),
		WorkCenterCount: len(input.WorkCenters),
		ChangeCount:     len(result.Changes),
		Explanation:     result.Explanation,
		OutputJSON:      buf.Bytes(),
		Changes:         result.Changes,
	}
	if err := repo.Save(context.Background(), run); err != nil {
		return err
	}
	app.Log.WithField("run", run.ID).Info("run saved")
	return nil
}

func renderChangeTable(changes []domain.ChangeRecord) string {
	headers := []string{"Work Order", "Center", "New Start", "New End", "ΔStart", "ΔEnd", "Reason"}
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		reason := ""
		if len(c.Reasons) > 0 {
			reason = c.Reasons[0]
		}
		if len(c.Reasons) > 1 {
			reason += formatter.Dim(fmt.Sprintf(" (+%d)", len(c.Reasons)-1))
		}
		rows = append(rows, []string{
			c.WorkOrderNumber,
			c.WorkCenterID,
			formatter.ShortStamp(c.NewStart),
			formatter.ShortStamp(c.NewEnd),
			formatter.DeltaBadge(c.StartDeltaMinutes),
			formatter.DeltaBadge(c.EndDeltaMinutes),
			reason,
		})
	}
	return formatter.RenderTable(headers, rows)
}
