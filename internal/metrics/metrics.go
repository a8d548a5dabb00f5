// Package metrics provides read-only projections over the ledger state.
// Nothing here mutates state.
package metrics

import "sol-paper-ledger/internal/models"

// Summary bundles every projection for a single read.
type Summary struct {
	Balance               float64
	OpenInvestedValue     float64
	UnrealizedTotal       float64
	Equity                float64
	RealizedTotal         float64
	ClosedCount           int
	WinRate               float64
	AverageReturnPercent  float64
	AverageReturnAbsolute float64
}

// Compute derives the full summary from the current state.
func Compute(s *models.LedgerState) Summary {
	openValue := OpenInvestedValue(s)
	var principal float64
	for _, p := range s.Positions {
		if !p.IsClosed() {
			principal += p.InvestedAmount
		}
	}
	return Summary{
		Balance:               s.Balance,
		OpenInvestedValue:     openValue,
		UnrealizedTotal:       openValue - principal,
		Equity:                s.Balance + openValue,
		RealizedTotal:         RealizedTotal(s),
		ClosedCount:           closedCount(s),
		WinRate:               WinRate(s),
		AverageReturnPercent:  AverageReturnPercent(s),
		AverageReturnAbsolute: AverageReturnAbsolute(s),
	}
}

// OpenInvestedValue is the aggregate mark-to-market value of all open
// positions. A missing or non-positive observed mark contributes at the
// cost basis (multiplier 1).
func OpenInvestedValue(s *models.LedgerState) float64 {
	var total float64
	for _, p := range s.Positions {
		if p.IsClosed() {
			continue
		}
		multiplier := 1.0
		if p.LastObservedMark > 0 && p.AverageEntryMark > 0 {
			multiplier = p.LastObservedMark / p.AverageEntryMark
		}
		total += p.InvestedAmount * multiplier
	}
	return total
}

// RealizedTotal is the sum of final P/L over closed positions.
func RealizedTotal(s *models.LedgerState) float64 {
	var total float64
	for _, p := range s.Positions {
		if p.IsClosed() {
			total += p.FinalPnl
		}
	}
	return total
}

// WinRate is the percentage of closed positions with a positive final
// P/L; 0 when no position has closed yet.
func WinRate(s *models.LedgerState) float64 {
	closed, wins := 0, 0
	for _, p := range s.Positions {
		if p.IsClosed() {
			closed++
			if p.FinalPnl > 0 {
				wins++
			}
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed) * 100
}

// AverageReturnPercent is the arithmetic mean of final P/L percent over
// closed positions; 0 when none.
func AverageReturnPercent(s *models.LedgerState) float64 {
	var sum float64
	n := 0
	for _, p := range s.Positions {
		if p.IsClosed() {
			sum += p.FinalPnlPercent
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AverageReturnAbsolute is the arithmetic mean of final P/L over closed
// positions; 0 when none.
func AverageReturnAbsolute(s *models.LedgerState) float64 {
	var sum float64
	n := 0
	for _, p := range s.Positions {
		if p.IsClosed() {
			sum += p.FinalPnl
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func closedCount(s *models.LedgerState) int {
	n := 0
	for _, p := range s.Positions {
		if p.IsClosed() {
			n++
		}
	}
	return n
}
