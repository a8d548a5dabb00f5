// Package recorder maintains the balance / open-value time series on the
// ledger state. Points are appended only when the derived values differ
// from the previous point, so idle periods do not grow the series.
package recorder

import (
	"math"
	"time"

	"sol-paper-ledger/internal/metrics"
	"sol-paper-ledger/internal/models"
)

// changeTolerance is the per-component tolerance when comparing a new
// point against the last appended one.
const changeTolerance = 1e-9

// RecordIfChanged appends a snapshot of (balance, open value) at now and
// reports whether a point was appended. If both components are within
// tolerance of the last point the call is a no-op.
func RecordIfChanged(s *models.LedgerState, now time.Time) bool {
	openValue := metrics.OpenInvestedValue(s)

	if n := len(s.History); n > 0 {
		last := s.History[n-1]
		if math.Abs(last.Balance-s.Balance) < changeTolerance &&
			math.Abs(last.OpenValue-openValue) < changeTolerance {
			return false
		}
	}

	s.History = append(s.History, models.Snapshot{
		Timestamp: now,
		Balance:   s.Balance,
		OpenValue: openValue,
	})
	return true
}

// ClearSeries empties the history; balance and positions are untouched.
func ClearSeries(s *models.LedgerState) {
	s.History = []models.Snapshot{}
}
