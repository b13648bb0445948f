package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LingHeChen/datevar/eval"
	"github.com/LingHeChen/datevar/xlsx"
)

func newXlsxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsx <in.xlsx> <out.xlsx>",
		Short: "Render the text cells of a workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runXlsx(cmd, args[0], args[1])
		},
	}
	cmd.Flags().String("date", "", "base date (default today)")
	return cmd
}

func (a *app) runXlsx(cmd *cobra.Command, in, out string) error {
	base, err := a.baseDate(cmd)
	if err != nil {
		return err
	}
	report, err := xlsx.RenderWorkbook(in, out, eval.NewRenderer(eval.WithLogger(a.logger)), base)
	if err != nil {
		return err
	}
	a.logger.Info("rendered workbook", "in", in, "out", out, "base", base)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d text cells in %d sheets\n",
		color.GreenString("rendered"), report.Changed, report.Cells, report.Sheets)
	return err
}
