package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidNumber = errors.New("invalid number")

// ParseQuantity parses a consumption or cost field.
//
// Surrounding whitespace is ignored and a dot is the only decimal separator, since a
// comma already separates fields. The value must be finite and non-negative.
//
// Examples:
//
//	ParseQuantity("12.5")  -> 12.5, nil
//	ParseQuantity(" 100 ") -> 100, nil
//	ParseQuantity("abc")   -> 0, ErrInvalidNumber
//	ParseQuantity("-3")    -> 0, ErrNegativeValue
func ParseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFiniteValue
	}
	if v < 0 {
		return 0, ErrNegativeValue
	}
	return v, nil
}
