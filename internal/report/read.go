package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"billcmp/internal/core"
)

// Parsed is the content recovered from a report.
type Parsed struct {
	Rows  []core.ComparisonRow
	Stats core.SummaryStats
}

type readState int

const (
	expectRowHeader readState = iota
	inRows
	expectStats
	done
)

// Read parses a report produced by Write. Rule lines are ignored and the
// header lines are only used to tell the two tables apart.
func Read(r io.Reader) (*Parsed, error) {
	out := &Parsed{}
	state := expectRowHeader

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if isRule(line) || strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFixed(line)

		switch state {
		case expectRowHeader:
			if fields != RowHeader {
				return nil, fmt.Errorf("%w: line %d: expected comparison header", ErrMalformedReport, n)
			}
			state = inRows
		case inRows:
			if fields == StatsHeader {
				state = expectStats
				continue
			}
			row, err := parseRow(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedReport, n, err)
			}
			out.Rows = append(out.Rows, row)
		case expectStats:
			stats, err := parseStats(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedReport, n, err)
			}
			out.Stats = stats
			state = done
		case done:
			return nil, fmt.Errorf("%w: line %d: unexpected content after summary", ErrMalformedReport, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if state != done {
		return nil, fmt.Errorf("%w: missing summary table", ErrMalformedReport)
	}
	return out, nil
}

func isRule(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, "-=") == ""
}

// splitFixed cuts line into Columns fields of FieldWidth runes, trimming the
// right-hand padding only so labels keep their leading spaces.
func splitFixed(line string) [Columns]string {
	var out [Columns]string
	runes := []rune(line)
	for i := 0; i < Columns; i++ {
		start := i * FieldWidth
		if start >= len(runes) {
			break
		}
		end := min(start+FieldWidth, len(runes))
		out[i] = strings.TrimRight(string(runes[start:end]), " ")
	}
	return out
}

func parseRow(f [Columns]string) (core.ComparisonRow, error) {
	nums, err := parseNumbers(f[2:])
	if err != nil {
		return core.ComparisonRow{}, err
	}
	return core.ComparisonRow{
		PreviousPeriod:      f[0],
		CurrentPeriod:       f[1],
		PreviousConsumption: nums[0],
		CurrentConsumption:  nums[1],
		PreviousCost:        nums[2],
		CurrentCost:         nums[3],
	}, nil
}

func parseStats(f [Columns]string) (core.SummaryStats, error) {
	nums, err := parseNumbers(f[:])
	if err != nil {
		return core.SummaryStats{}, err
	}
	return core.SummaryStats{
		AverageCost:                nums[0],
		AveragePreviousConsumption: nums[1],
		MinCurrentConsumption:      nums[2],
		MaxCurrentConsumption:      nums[3],
		MinPreviousCost:            nums[4],
		MaxPreviousCost:            nums[5],
	}, nil
}

func parseNumbers(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = d.InexactFloat64()
	}
	return out, nil
}
