package core

import (
	"errors"
	"fmt"
	"math"
)

const (
	Energy Category = "energy"
	Water  Category = "water"
)

type (
	// Category tags a bill as energy or water. It only changes labels, never arithmetic.
	Category string

	// BillRecord is one parsed line of a bill file.
	BillRecord struct {
		Category    Category
		Period      string // opaque label, e.g. a month name
		Consumption float64
		Cost        float64
	}
)

// Tokens used by bill files. Matching is exact and case-sensitive.
var categoryTokens = map[string]Category{
	"Energia": Energy,
	"Água":    Water,
}

var categoryUnits = map[Category]string{
	Energy: "kWh",
	Water:  "m³",
}

var categoryLabels = map[Category]string{
	Energy: "Energy",
	Water:  "Water",
}

var (
	ErrNegativeValue   = errors.New("negative value")
	ErrNonFiniteValue  = errors.New("value is not a finite number")
	ErrInvalidCategory = errors.New("invalid category")
)

// ParseCategoryToken maps a file token to its Category.
func ParseCategoryToken(token string) (Category, bool) {
	c, ok := categoryTokens[token]
	return c, ok
}

// Unit returns the display unit of measure for the category.
func (c Category) Unit() string {
	return categoryUnits[c]
}

// Label returns the human readable category name.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryUnits[c]
	return ok
}

func (r BillRecord) Validate() error {
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(r.Category))
	}
	for _, v := range []float64{r.Consumption, r.Cost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFiniteValue
		}
		if v < 0 {
			return ErrNegativeValue
		}
	}
	return nil
}

// Describe renders the record the way it is shown to a user, one field per line.
func (r BillRecord) Describe() string {
	return fmt.Sprintf("%s bill for %s\nConsumption: %g %s\nCost: %.2f\n",
		r.Category.Label(), r.Period, r.Consumption, r.Category.Unit(), r.Cost)
}

// MeanConsumption returns the arithmetic mean of Consumption over records, or 0 when empty.
func MeanConsumption(records []BillRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += r.Consumption
	}
	return total / float64(len(records))
}
