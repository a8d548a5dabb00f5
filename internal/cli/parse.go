package cli

import (
	"fmt"
	"math"
	"strconv"
)

// parsePositive converts raw text into a positive finite number. All
// numeric user input passes through here (or parseFinite) before any
// engine call, so the engine only ever sees validated values.
func parsePositive(name, raw string) (float64, error) {
	v, err := parseFinite(name, raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero, got %q", name, raw)
	}
	return v, nil
}

// parseFinite converts raw text into a finite number; negatives allowed.
func parseFinite(name, raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite, got %q", name, raw)
	}
	return v, nil
}
