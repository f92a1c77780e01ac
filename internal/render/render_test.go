package render

import (
	"strings"
	"testing"

	"billcmp/internal/analysis"
	"billcmp/internal/core"
	"billcmp/internal/loader"
)

func TestUnit(t *testing.T) {
	energy := core.BillRecord{Category: core.Energy}
	water := core.BillRecord{Category: core.Water}

	if got := Unit([]core.BillRecord{energy, energy}); got != "kWh" {
		t.Errorf("Unit(energy) = %q, want kWh", got)
	}
	if got := Unit([]core.BillRecord{water}); got != "m³" {
		t.Errorf("Unit(water) = %q, want m³", got)
	}
	if got := Unit([]core.BillRecord{energy, water}); got != "kWh or m³" {
		t.Errorf("Unit(mixed) = %q, want both units", got)
	}
}

func TestTable(t *testing.T) {
	out := Table([]string{"A", "Bee"}, [][]string{{"long value", "x"}, {"y", "z"}})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "A") || !strings.Contains(lines[0], "Bee") {
		t.Errorf("header missing: %q", lines[0])
	}
	if !strings.Contains(lines[1], "long value") {
		t.Errorf("row missing: %q", lines[1])
	}
}

func TestComparison(t *testing.T) {
	res, err := analysis.Compare([]core.BillRecord{
		{Category: core.Energy, Period: "Jan", Consumption: 100, Cost: 50},
		{Category: core.Energy, Period: "Feb", Consumption: 150, Cost: 75},
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	out := Comparison(res, "kWh")
	for _, want := range []string{
		"Previous Consumption (kWh)",
		"Jan", "Feb", "100.00", "150.00", "75.00",
		"Average Cost",
		analysis.MsgNeedsToSave, analysis.MsgConsumedMore, analysis.MsgSpentMore,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProblems(t *testing.T) {
	if Problems(nil) != "" || Problems(&loader.Result{}) != "" {
		t.Fatal("expected no output without problems")
	}
	res := &loader.Result{
		Errors:   []*core.LineError{{Line: 2, Text: "x", Err: core.ErrMalformedLine}},
		Warnings: []*core.LineError{{Line: 3, Text: "Gas,a,1,1", Err: core.ErrUnrecognizedCategory}},
	}
	out := Problems(res)
	if !strings.Contains(out, "line 2: malformed line") || !strings.Contains(out, "line 3: unrecognized category") {
		t.Errorf("unexpected problems output:\n%s", out)
	}
}

func TestRecords(t *testing.T) {
	if Records(nil) != "" {
		t.Fatal("expected no output without records")
	}
	out := Records([]core.BillRecord{
		{Category: core.Energy, Period: "Jan", Consumption: 100, Cost: 50},
		{Category: core.Water, Period: "Feb", Consumption: 12.5, Cost: 40},
	})
	for _, want := range []string{"Energy bill for Jan", "100 kWh", "Cost: 50.00", "Water bill for Feb", "12.5 m³"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
