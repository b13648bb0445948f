package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LingHeChen/datevar/lexer"
	"github.com/LingHeChen/datevar/token"
)

func newTokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [template|-]",
		Short: "Show the tokens of a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokens(cmd, args)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	cmd.Flags().StringP("file", "f", "", "read the template from a file")
	return cmd
}

func (a *app) runTokens(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	template, err := readTemplate(cmd, args)
	if err != nil {
		return err
	}

	tokens := lexer.Tokenize(template)
	a.logger.Debug("tokenized", "tokens", len(tokens))

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return formatTokensPretty(out, tokens)
	case "json":
		return token.WriteJSON(out, tokens)
	case "msgpack":
		return token.WriteMsgpack(out, tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

var (
	textColor    = color.New(color.FgGreen)
	segmentColor = color.New(color.FgCyan, color.Bold)
	fieldColor   = color.New(color.FgYellow)
)

func formatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		var err error
		switch t := tok.(type) {
		case token.Text:
			_, err = fmt.Fprintf(w, "%3d  %s %s\n", i, textColor.Sprint("text   "), strconv.Quote(t.Content))
		case token.Segment:
			fields := t.Fields()
			placeholders := make([]string, len(fields))
			for j, f := range fields {
				placeholders[j] = f.Placeholder()
			}
			_, err = fmt.Fprintf(w, "%3d  %s %s\n", i, segmentColor.Sprint("segment"), strings.Join(placeholders, " "))
			for _, leaf := range t.Leaves {
				if err != nil {
					break
				}
				switch l := leaf.(type) {
				case token.DateField:
					_, err = fmt.Fprintf(w, "       %s %s\n", fieldColor.Sprintf("%-7s", l.Field), token.FormatOffset(l.Offset))
				case token.Text:
					_, err = fmt.Fprintf(w, "       %s %s\n", textColor.Sprint("text   "), strconv.Quote(l.Content))
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
