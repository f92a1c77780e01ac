// Package report writes and reads the fixed-width comparison report.
//
// A report holds two framed tables separated by rule lines made of "-=":
// the comparison rows and, below them, the single summary statistics row.
// Every field is 17 characters wide and left-justified; numbers carry two decimals.
package report

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"billcmp/internal/core"
)

const (
	FieldWidth = 17
	Columns    = 6
	Width      = FieldWidth * Columns
	Decimals   = 2
)

var (
	RowHeader = [Columns]string{
		"Previous Period",
		"Current Period",
		"Prev Consumption",
		"Curr Consumption",
		"Previous Cost",
		"Current Cost",
	}
	StatsHeader = [Columns]string{
		"Average Cost",
		"Avg Consumption",
		"Min Consumption",
		"Max Consumption",
		"Min Cost",
		"Max Cost",
	}

	Rule = strings.Repeat("-=", Width/2)
)

var (
	ErrMalformedReport = errors.New("malformed report")
	ErrFieldOverflow   = errors.New("number does not fit the report field")
)

// Write renders rows and stats to w. Period labels wider than FieldWidth are
// truncated; a number that does not fit its field fails with ErrFieldOverflow
// and nothing is written.
func Write(w io.Writer, rows []core.ComparisonRow, stats core.SummaryStats) error {
	lines := make([]string, 0, len(rows)+8)
	lines = append(lines, Rule, formatLine(RowHeader[:]), Rule)
	for i, r := range rows {
		nums, err := formatNumbers(r.PreviousConsumption, r.CurrentConsumption, r.PreviousCost, r.CurrentCost)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		lines = append(lines, formatLine(append([]string{r.PreviousPeriod, r.CurrentPeriod}, nums...)))
	}

	nums, err := formatNumbers(
		stats.AverageCost,
		stats.AveragePreviousConsumption,
		stats.MinCurrentConsumption,
		stats.MaxCurrentConsumption,
		stats.MinPreviousCost,
		stats.MaxPreviousCost,
	)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	lines = append(lines, Rule, formatLine(StatsHeader[:]), Rule, formatLine(nums), Rule)

	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Export writes the report to path, replacing any existing file.
// The report is rendered before the file is touched, so an ErrFieldOverflow
// leaves any existing file in place.
func Export(path string, rows []core.ComparisonRow, stats core.SummaryStats) (err error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows, stats); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &core.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &core.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return &core.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// FormatNumber renders v with two decimals, rounding halves away from zero
// on the shortest decimal representation of v (so 2.675 becomes 2.68).
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(Decimals)
}

func formatNumbers(vals ...float64) ([]string, error) {
	out := make([]string, len(vals))
	for i, v := range vals {
		s := FormatNumber(v)
		if len(s) > FieldWidth {
			return nil, fmt.Errorf("%w: %s is wider than %d characters", ErrFieldOverflow, s, FieldWidth)
		}
		out[i] = s
	}
	return out, nil
}

func formatLine(fields []string) string {
	var b strings.Builder
	b.Grow(Width)
	for _, f := range fields {
		fmt.Fprintf(&b, "%-*.*s", FieldWidth, FieldWidth, f)
	}
	return b.String()
}
