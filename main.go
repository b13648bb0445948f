package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/LingHeChen/datevar/config"
	"github.com/LingHeChen/datevar/date"
	"github.com/LingHeChen/datevar/parser"
	"github.com/LingHeChen/datevar/preview"
)

const version = "0.1.0"

const long = `datevar renders text templates with relative date placeholders.

Placeholders:
  #d#  #m#  #y#         day, month and year of the base date
  #d-2#  #m+1#  #y-1#   with an offset

Placeholders that follow each other, with only text in between, form one
date and are resolved together:

  Invoice for #m-1#/#y#         with base 2024-01-20 => Invoice for 12/2023

Anything that is not a placeholder is copied unchanged.`

// app is the state shared by all subcommands, set up before any of them runs
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:           "datevar",
		Short:         "Relative date template renderer",
		Long:          long,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newXlsxCmd(a))
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return err
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	colorFlag, _ := flags.GetString("color")
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(cmd.OutOrStdout())
	default:
		return fmt.Errorf("--color: %w: %q", config.ErrUnknownFormat, colorFlag)
	}
	return nil
}

// service builds the preview service from the loaded config
func (a *app) service() (*preview.Service, error) {
	opts, err := a.cfg.PreviewOptions()
	if err != nil {
		return nil, err
	}
	return preview.NewService(append(opts, preview.WithLogger(a.logger))...), nil
}

// baseDate parses --date, defaulting to today in the configured time zone
func (a *app) baseDate(cmd *cobra.Command) (date.Date, error) {
	s, _ := cmd.Flags().GetString("date")
	if strings.TrimSpace(s) != "" {
		return parser.ParseDate(s)
	}
	svc, err := a.service()
	if err != nil {
		return date.Date{}, err
	}
	return svc.Today(), nil
}

// readTemplate takes the template from --file, from the argument, or from
// stdin when the argument is missing or "-"
func readTemplate(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	switch {
	case file != "":
		if len(args) > 0 {
			return "", fmt.Errorf("--file and a template argument are mutually exclusive")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read template: %w", err)
		}
		return string(data), nil
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return args[0], nil
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
