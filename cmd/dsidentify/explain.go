// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/invowk/dsidentify/internal/app/identify"
	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/internal/dslist"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const absentValue = "(absent)"

func newExplainCommand(app *App, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Show how the datasource list is decided, without writing it",
		Long: `Resolve the candidate list and evaluate every candidate, then print the
identity fields, the verdict for each candidate and the resulting list.
Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := app.setup(ctx, config.LoadOptions{Viper: v})
			if err != nil {
				return app.fail(cmd, err, false)
			}

			opts := app.identifyOptions(cfg)
			opts.CollectIdentity = true
			outcome, err := identify.Detect(ctx, opts)
			if err != nil {
				return app.fail(cmd, err, cfg.Verbose)
			}

			renderExplanation(app.stdout, cfg, outcome)
			return nil
		},
	}
}

func renderExplanation(w io.Writer, cfg *config.Config, outcome *identify.Outcome) {
	res := outcome.Resolution

	fmt.Fprintln(w, TitleStyle.Render("Root")+" "+NameStyle.Render(cfg.Root.String()))
	fmt.Fprintln(w, TitleStyle.Render("Candidate list")+" "+describeSource(res))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Identity"))
	identityRows := make([][]string, 0, len(outcome.Identity))
	for _, iv := range outcome.Identity {
		value := iv.Value
		if !iv.Present {
			value = absentValue
		}
		identityRows = append(identityRows, []string{iv.Field.String(), value})
	}
	fmt.Fprintln(w, newTable([]string{"Field", "Value"}, identityRows).String())
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Candidates"))
	verdictRows := make([][]string, 0, len(outcome.Report.Verdicts))
	for _, vd := range outcome.Report.Verdicts {
		supported := "yes"
		if !vd.Known {
			supported = "no"
		}
		verdictRows = append(verdictRows, []string{vd.Name.String(), supported, verdictText(vd)})
	}
	fmt.Fprintln(w, newTable([]string{"Datasource", "Supported", "Result"}, verdictRows).String())

	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("Skipped configuration"))
		for _, d := range res.Diagnostics {
			line := fmt.Sprintf("  • %s %s: %s", d.Code, d.Path, d.Message)
			if d.Cause != nil {
				line += ": " + d.Cause.Error()
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Result")+" "+SuccessStyle.Render(strings.Join(datasource.Strings(outcome.Report.Datasources), ", ")))
}

func describeSource(res dslist.Result) string {
	if res.Source == dslist.SourceDefault {
		return SubtitleStyle.Render("built-in default")
	}
	return res.Source.String() + " " + NameStyle.Render(res.Path.String())
}

func verdictText(vd datasource.Verdict) string {
	switch {
	case vd.Assumed:
		return WarningStyle.Render("assumed (only candidate)")
	case vd.Matched:
		return SuccessStyle.Render("matched")
	case !vd.Known:
		return SubtitleStyle.Render("ignored")
	default:
		return SubtitleStyle.Render("no match")
	}
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
}
