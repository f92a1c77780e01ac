// Package analysis compares consecutive bill records and summarises them.
// Every function here is pure: the same records always give the same result.
package analysis

import (
	"fmt"

	"billcmp/internal/core"
)

// Advisory lines, in the order they appear in a message.
const (
	MsgNeedsToSave  = "You need to save more!"
	MsgIsSaving     = "You are saving!"
	MsgOnAverage    = "Your consumption is on average."
	MsgConsumedMore = "You consumed more last period."
	MsgConsumedLess = "You consumed less last period."
	MsgSpentMore    = "You spent more last period."
	MsgSpentLess    = "You spent less last period."
)

// Result holds everything derived from one comparison pass.
type Result struct {
	Rows     []core.ComparisonRow
	Stats    core.SummaryStats
	Advisory core.Advisory

	AverageConsumption float64
	LastConsumption    float64
	LastCost           float64
}

// Compare builds one row per adjacent pair of records, the summary statistics
// over those rows and the advisory. records must hold at least two entries.
func Compare(records []core.BillRecord) (*Result, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInsufficientData, len(records))
	}

	rows := BuildRows(records)
	last := records[len(records)-1]
	mean := core.MeanConsumption(records)

	return &Result{
		Rows:               rows,
		Stats:              ComputeStats(rows),
		Advisory:           BuildAdvisory(records, mean),
		AverageConsumption: mean,
		LastConsumption:    last.Consumption,
		LastCost:           last.Cost,
	}, nil
}

// BuildRows returns len(records)-1 rows, pairing records[i-1] with records[i].
func BuildRows(records []core.BillRecord) []core.ComparisonRow {
	if len(records) < 2 {
		return nil
	}
	rows := make([]core.ComparisonRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rows = append(rows, core.NewComparisonRow(records[i-1], records[i]))
	}
	return rows
}

// ComputeStats summarises rows. The average cost uses each row's current cost and
// the average consumption uses each row's previous consumption.
// It returns zero stats for an empty slice.
func ComputeStats(rows []core.ComparisonRow) core.SummaryStats {
	if len(rows) == 0 {
		return core.SummaryStats{}
	}

	first := rows[0]
	s := core.SummaryStats{
		MinCurrentConsumption: first.CurrentConsumption,
		MaxCurrentConsumption: first.CurrentConsumption,
		MinPreviousCost:       first.PreviousCost,
		MaxPreviousCost:       first.PreviousCost,
	}

	var costSum, consumptionSum float64
	for _, r := range rows {
		costSum += r.CurrentCost
		consumptionSum += r.PreviousConsumption

		s.MinCurrentConsumption = min(s.MinCurrentConsumption, r.CurrentConsumption)
		s.MaxCurrentConsumption = max(s.MaxCurrentConsumption, r.CurrentConsumption)
		s.MinPreviousCost = min(s.MinPreviousCost, r.PreviousCost)
		s.MaxPreviousCost = max(s.MaxPreviousCost, r.PreviousCost)
	}

	n := float64(len(rows))
	s.AverageCost = costSum / n
	s.AveragePreviousConsumption = consumptionSum / n
	return s
}

// BuildAdvisory derives the three advisory lines from the last two records and
// the mean consumption over all records. It needs at least two records.
func BuildAdvisory(records []core.BillRecord, meanConsumption float64) core.Advisory {
	var a core.Advisory
	if len(records) < 2 {
		return a
	}
	last := records[len(records)-1]
	prev := records[len(records)-2]

	a.NeedsToSave = last.Consumption > meanConsumption
	a.IsSaving = last.Consumption < meanConsumption

	switch {
	case a.NeedsToSave:
		a.Lines[0] = MsgNeedsToSave
	case a.IsSaving:
		a.Lines[0] = MsgIsSaving
	default:
		a.Lines[0] = MsgOnAverage
	}

	if last.Consumption > prev.Consumption {
		a.Lines[1] = MsgConsumedMore
	} else {
		a.Lines[1] = MsgConsumedLess
	}

	if last.Cost > prev.Cost {
		a.Lines[2] = MsgSpentMore
	} else {
		a.Lines[2] = MsgSpentLess
	}

	return a
}
