package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/reflow/internal/cli/formatter"
	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/loader"
	"github.com/alexanderramin/reflow/internal/verify"
)

func newVerifyCmd(app *App) *cobra.Command {
	var againstPath string

	cmd := &cobra.Command{
		Use:   "verify <output.json>",
		Short: "Check a reflow output against the scheduling invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := loader.LoadFile(againstPath)
			if err != nil {
				return err
			}
			input, err := loader.Decode(payload)
			if err != nil {
				return err
			}

			out, err := loader.LoadOutputFile(args[0])
			if err != nil {
				return err
			}
			orders, err := loader.OutputOrders(out)
			if err != nil {
				return err
			}

			violations := verify.Check(input, &contract.ReflowResult{UpdatedWorkOrders: orders})
			if len(violations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("OK")+
					formatter.Dim(fmt.Sprintf(" — %d work orders satisfy all invariants", len(orders))))
				return nil
			}

			for _, v := range violations {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StyleRed.Render("FAIL"), v.String())
			}
			return fmt.Errorf("%d constraint violations", len(violations))
		},
	}

	cmd.Flags().StringVar(&againstPath, "against", "", "Original input payload to verify against")
	_ = cmd.MarkFlagRequired("against")

	return cmd
}
