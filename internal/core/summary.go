package core

import "strings"

// ComparisonRow pairs two adjacent bill records.
type ComparisonRow struct {
	PreviousPeriod      string
	CurrentPeriod       string
	PreviousConsumption float64
	CurrentConsumption  float64
	PreviousCost        float64
	CurrentCost         float64
}

// SummaryStats aggregates a list of comparison rows.
//
// AverageCost is taken from the current side of each row while
// AveragePreviousConsumption is taken from the previous side.
type SummaryStats struct {
	AverageCost                float64
	AveragePreviousConsumption float64
	MinCurrentConsumption      float64
	MaxCurrentConsumption      float64
	MinPreviousCost            float64
	MaxPreviousCost            float64
}

// Advisory is the qualitative outcome of a comparison pass.
type Advisory struct {
	NeedsToSave bool
	IsSaving    bool
	Lines       [3]string
}

// NewComparisonRow copies the six fields from prev and cur.
func NewComparisonRow(prev, cur BillRecord) ComparisonRow {
	return ComparisonRow{
		PreviousPeriod:      prev.Period,
		CurrentPeriod:       cur.Period,
		PreviousConsumption: prev.Consumption,
		CurrentConsumption:  cur.Consumption,
		PreviousCost:        prev.Cost,
		CurrentCost:         cur.Cost,
	}
}

// Message joins the advisory lines, one per line.
func (a Advisory) Message() string {
	var b strings.Builder
	for _, l := range a.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
