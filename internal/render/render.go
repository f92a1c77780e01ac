// Package render draws analysis results for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"billcmp/internal/analysis"
	"billcmp/internal/core"
	"billcmp/internal/loader"
	"billcmp/internal/report"
)

var (
	colorMuted = lipgloss.Color("#6b6d8a")
	colorGood  = lipgloss.Color("#86bada")
	colorBad   = lipgloss.Color("#f6bcb0")
	colorTitle = lipgloss.Color("#ffe3b3")
)

// Cached styles.
var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle    = lipgloss.NewStyle().Foreground(colorGood)
	badStyle     = lipgloss.NewStyle().Foreground(colorBad)
	cellPadStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Unit returns the unit label for records: the category unit when every record
// shares one category, otherwise both units.
func Unit(records []core.BillRecord) string {
	if len(records) == 0 {
		return core.Energy.Unit() + " or " + core.Water.Unit()
	}
	first := records[0].Category
	for _, r := range records[1:] {
		if r.Category != first {
			return core.Energy.Unit() + " or " + core.Water.Unit()
		}
	}
	return first.Unit()
}

// Table renders a simple column-aligned table with a bold header row.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cellPadStyle.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(headers, headerStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}

// Comparison renders rows, stats and advisory of one comparison pass.
func Comparison(res *analysis.Result, unit string) string {
	var b strings.Builder

	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = []string{
			r.PreviousPeriod,
			r.CurrentPeriod,
			report.FormatNumber(r.PreviousConsumption),
			report.FormatNumber(r.CurrentConsumption),
			report.FormatNumber(r.PreviousCost),
			report.FormatNumber(r.CurrentCost),
		}
	}
	b.WriteString(Table([]string{
		"Previous Period",
		"Current Period",
		fmt.Sprintf("Previous Consumption (%s)", unit),
		fmt.Sprintf("Current Consumption (%s)", unit),
		"Previous Cost",
		"Current Cost",
	}, rows))
	b.WriteString("\n\n")

	s := res.Stats
	b.WriteString(Table([]string{
		"Average Cost",
		"Average Consumption",
		fmt.Sprintf("Min Consumption (%s)", unit),
		fmt.Sprintf("Max Consumption (%s)", unit),
		"Min Cost",
		"Max Cost",
	}, [][]string{{
		report.FormatNumber(s.AverageCost),
		report.FormatNumber(s.AveragePreviousConsumption),
		report.FormatNumber(s.MinCurrentConsumption),
		report.FormatNumber(s.MaxCurrentConsumption),
		report.FormatNumber(s.MinPreviousCost),
		report.FormatNumber(s.MaxPreviousCost),
	}}))
	b.WriteString("\n\n")

	b.WriteString(Advisory(res.Advisory))
	return b.String()
}

// Advisory renders the advisory lines, colouring the first by its outcome.
func Advisory(a core.Advisory) string {
	var b strings.Builder
	for i, line := range a.Lines {
		style := lipgloss.NewStyle()
		if i == 0 {
			switch {
			case a.NeedsToSave:
				style = badStyle
			case a.IsSaving:
				style = goodStyle
			}
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// Records lists every loaded bill, one block per record.
func Records(records []core.BillRecord) string {
	var b strings.Builder
	for _, r := range records {
		desc := strings.TrimRight(r.Describe(), "\n")
		head, rest, _ := strings.Cut(desc, "\n")
		b.WriteString(headerStyle.Render(head) + "\n")
		if rest != "" {
			b.WriteString(mutedStyle.Render(rest) + "\n")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Problems lists per-line errors and warnings from a load.
func Problems(res *loader.Result) string {
	if res == nil || (len(res.Errors) == 0 && len(res.Warnings) == 0) {
		return ""
	}
	var b strings.Builder
	for _, e := range res.Errors {
		b.WriteString(badStyle.Render("error: "+e.Error()) + "\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(mutedStyle.Render("skipped: "+w.Error()) + "\n")
	}
	return b.String()
}

// Title renders a section title.
func Title(s string) string {
	return titleStyle.Render(s)
}
