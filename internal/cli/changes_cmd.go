package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/loader"
)

func newChangesCmd(app *App) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "changes <input.json>",
		Short: "Reflow a payload and inspect the change log in detail",
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

			if len(result.Changes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No changes needed."))
				return nil
			}

			content := renderChangeDetails(result.Changes)
			if interactive && app.IsInteractive != nil && app.IsInteractive() {
				p := tea.NewProgram(newChangesModel(content), tea.WithAltScreen())
				_, err := p.Run()
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse changes in a scrollable viewer")
	return cmd
}

// renderChangeDetails renders one block per change record with the full
// reason list.
func renderChangeDetails(changes []domain.ChangeRecord) string {
	var b strings.Builder
	for i, c := range changes {
		header := fmt.Sprintf("%s %s", c.WorkOrderNumber, formatter.Dim("on "+c.WorkCenterID))
		var body strings.Builder
		fmt.Fprintf(&body, "%s  %s → %s\n",
			formatter.Dim("was"),
			c.OldStart.UTC().Format(loader.TimeLayout),
			c.OldEnd.UTC().Format(loader.TimeLayout))
		fmt.Fprintf(&body, "%s  %s → %s  %s %s\n",
			formatter.Dim("now"),
			c.NewStart.UTC().Format(loader.TimeLayout),
			c.NewEnd.UTC().Format(loader.TimeLayout),
			formatter.DeltaBadge(c.StartDeltaMinutes),
			formatter.DeltaBadge(c.EndDeltaMinutes))
		for _, r := range c.Reasons {
			fmt.Fprintf(&body, "%s %s\n", formatter.StyleBlue.Render("·"), r)
		}
		b.WriteString(formatter.RenderBox(header, strings.TrimRight(body.String(), "\n")))
		b.WriteString("\n")
		if i < len(changes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
