package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-paper-ledger/internal/engine"
	"sol-paper-ledger/internal/models"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestEmptyState(t *testing.T) {
	s := models.NewLedgerState()

	assert.Zero(t, OpenInvestedValue(s))
	assert.Zero(t, RealizedTotal(s))
	assert.Zero(t, WinRate(s))
	assert.Zero(t, AverageReturnPercent(s))
	assert.Zero(t, AverageReturnAbsolute(s))
}

func TestOpenInvestedValue(t *testing.T) {
	s, err := engine.InitializeSession(models.NewLedgerState(), 100)
	require.NoError(t, err)
	s, err = engine.OpenPosition(s, "a", 1000, 10, testTime)
	require.NoError(t, err)
	id := s.Positions[0].ID
	s, err = engine.OpenPosition(s, "b", 500, 5, testTime)
	require.NoError(t, err)

	// Both at their entry mark: value equals the invested principal.
	assert.InDelta(t, 15.0, OpenInvestedValue(s), 1e-9)

	// Doubling one mark doubles its contribution.
	s, err = engine.MarkPosition(s, id, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, OpenInvestedValue(s), 1e-9)
}

// A non-positive observed mark contributes at the cost basis.
func TestOpenInvestedValueMarkFallback(t *testing.T) {
	s := models.NewLedgerState()
	s.Positions = []*models.Position{{
		ID: "1", Status: models.PositionOpen,
		AverageEntryMark: 1000, LastObservedMark: 0, InvestedAmount: 3,
	}}
	assert.Equal(t, 3.0, OpenInvestedValue(s))
}

func TestClosedPositionMetrics(t *testing.T) {
	s, err := engine.InitializeSession(models.NewLedgerState(), 100)
	require.NoError(t, err)

	// Winner: 2 SOL at 1000, sold fully at 2000 -> +2.
	s, err = engine.OpenPosition(s, "win", 1000, 2, testTime)
	require.NoError(t, err)
	winID := s.Positions[0].ID
	s, err = engine.PartialSell(s, winID, 2000, 2, testTime)
	require.NoError(t, err)

	// Loser: 4 SOL at 1000, sold fully at 500 -> -2.
	s, err = engine.OpenPosition(s, "lose", 1000, 4, testTime)
	require.NoError(t, err)
	loseID := s.Positions[0].ID
	s, err = engine.PartialSell(s, loseID, 500, 4, testTime)
	require.NoError(t, err)

	// Still open: should not appear in closed-position figures.
	s, err = engine.OpenPosition(s, "open", 1000, 1, testTime)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, RealizedTotal(s), 1e-9)
	assert.Equal(t, 50.0, WinRate(s))
	// +100% and -50% average to +25%.
	assert.InDelta(t, 25.0, AverageReturnPercent(s), 1e-9)
	assert.InDelta(t, 0.0, AverageReturnAbsolute(s), 1e-9)

	sum := Compute(s)
	assert.Equal(t, 2, sum.ClosedCount)
	assert.InDelta(t, s.Balance, sum.Balance, 1e-9)
	assert.InDelta(t, 1.0, sum.OpenInvestedValue, 1e-9)
	assert.InDelta(t, s.Balance+1.0, sum.Equity, 1e-9)
	assert.InDelta(t, 0.0, sum.UnrealizedTotal, 1e-9)
}
