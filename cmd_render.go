package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LingHeChen/datevar/eval"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [template|-]",
		Short: "Render a template",
		Long: `Render substitutes every placeholder of the template against the base date
given by --date, or today. The template comes from the argument, --file, or stdin.`,
		Example: `  datevar render --date 2024-03-28 'from #d-2#. #m-1#. #y-1#'
  echo 'due #d+14#. #m#.' | datevar render`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args)
		},
	}
	cmd.Flags().String("date", "", "base date, e.g. 2024-03-28 or 28. 3. 2024 (default today)")
	cmd.Flags().StringP("file", "f", "", "read the template from a file")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, args []string) error {
	template, err := readTemplate(cmd, args)
	if err != nil {
		return err
	}
	base, err := a.baseDate(cmd)
	if err != nil {
		return err
	}
	a.logger.Debug("rendering", "base", base, "length", len(template))

	out := eval.NewRenderer(eval.WithLogger(a.logger)).RenderString(template, base)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
