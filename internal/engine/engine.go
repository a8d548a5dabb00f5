// Package engine implements the position accounting engine: the pure
// state transitions that govern how buys, DCA buys, partial and full
// sells, mark updates and balance adjustments mutate a ledger of
// positions and a cash balance.
//
// Every operation takes the current state plus pre-validated arguments
// and returns either a new state or a rejection error; the input state is
// never modified, so a rejected operation is a guaranteed no-op.
package engine

import (
	"math"
	"time"

	"github.com/jxskiss/base62"

	"sol-paper-ledger/internal/models"
)

// CloseEpsilon is the residual invested amount below which a position is
// considered fully sold. It absorbs floating point residue from repeated
// partial sells.
const CloseEpsilon = 1e-7

// positiveFinite reports whether v is a usable positive number. The
// presentation layer validates raw input first; the engine re-validates
// defensively so it never operates on NaN, infinities or non-positive
// values.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// InitializeSession sets the starting balance and resets the ledger to a
// fresh session. Valid only from the uninitialized state; use
// ResetSession first to start over.
func InitializeSession(s *models.LedgerState, startingAmount float64) (*models.LedgerState, error) {
	if !positiveFinite(startingAmount) {
		return nil, ErrInvalidInput
	}
	if s != nil && s.Initialized() {
		return nil, ErrAlreadyInitialized
	}

	st := models.NewLedgerState()
	sb := startingAmount
	st.StartingBalance = &sb
	st.Balance = startingAmount
	return st, nil
}

// ResetSession discards all positions, balance and history and returns
// the canonical uninitialized state.
func ResetSession(_ *models.LedgerState) *models.LedgerState {
	return models.NewLedgerState()
}

// OpenPosition creates a new open position, committing amount SOL at
// entryMark and debiting the balance. The new position is inserted at the
// front so iteration order stays most-recent-first.
func OpenPosition(s *models.LedgerState, name string, entryMark, amount float64, now time.Time) (*models.LedgerState, error) {
	if !positiveFinite(entryMark) || !positiveFinite(amount) {
		return nil, ErrInvalidInput
	}
	if amount > s.Balance {
		return nil, ErrInsufficientBalance
	}

	st := s.Clone()
	pos := &models.Position{
		ID:               string(base62.FormatInt(st.NextID)),
		Name:             name,
		Status:           models.PositionOpen,
		AverageEntryMark: entryMark,
		LastObservedMark: entryMark,
		InvestedAmount:   amount,
		CumulativeBought: amount,
		OpenedAt:         now,
	}
	st.Positions = append([]*models.Position{pos}, st.Positions...)
	st.Balance -= amount
	st.NextID++
	return st, nil
}

// Revision carries the optional field overrides for ReviseOpenPosition.
// A nil field is left untouched.
type Revision struct {
	Name             *string
	AverageEntryMark *float64
	InvestedAmount   *float64
}

// ReviseOpenPosition manually overrides fields of an open position. This
// is a correction path distinct from BuyMore/PartialSell: it does not
// touch the cumulative tracking fields, so prefer the trade operations
// for financially meaningful changes.
//
// An invested amount change settles the delta against the balance: an
// increase requires sufficient cash, a decrease refunds it. Values below
// zero clamp to zero, refunding at most the invested principal.
func ReviseOpenPosition(s *models.LedgerState, id string, rev Revision) (*models.LedgerState, error) {
	target := s.FindPosition(id)
	if target == nil {
		return nil, ErrPositionNotFound
	}
	if target.IsClosed() {
		return nil, ErrPositionClosed
	}
	if rev.AverageEntryMark != nil && !positiveFinite(*rev.AverageEntryMark) {
		return nil, ErrInvalidInput
	}

	var delta float64
	if rev.InvestedAmount != nil {
		if !finite(*rev.InvestedAmount) {
			return nil, ErrInvalidInput
		}
		delta = math.Max(0, *rev.InvestedAmount) - target.InvestedAmount
		if delta > 0 && delta > s.Balance {
			return nil, ErrInsufficientBalance
		}
	}

	st := s.Clone()
	pos := st.FindPosition(id)
	if rev.Name != nil {
		pos.Name = *rev.Name
	}
	if rev.AverageEntryMark != nil {
		// Observational mark is deliberately left alone.
		pos.AverageEntryMark = *rev.AverageEntryMark
	}
	if rev.InvestedAmount != nil {
		pos.InvestedAmount = math.Max(0, *rev.InvestedAmount)
		st.Balance -= delta
	}
	return st, nil
}

// BuyMore performs a DCA buy into an open position. The cost basis is
// recomputed as the capital-weighted average of every buy, so later
// P/L-percent figures stay meaningful regardless of how fragmented the
// buys were:
//
//	newAvg = (avg*invested + mark*buy) / (invested + buy)
func BuyMore(s *models.LedgerState, id string, currentMark, buyAmount float64) (*models.LedgerState, error) {
	if !positiveFinite(currentMark) || !positiveFinite(buyAmount) {
		return nil, ErrInvalidInput
	}
	target := s.FindPosition(id)
	if target == nil {
		return nil, ErrPositionNotFound
	}
	if target.IsClosed() {
		return nil, ErrPositionClosed
	}
	if buyAmount > s.Balance {
		return nil, ErrInsufficientBalance
	}

	st := s.Clone()
	pos := st.FindPosition(id)
	pos.AverageEntryMark = (pos.AverageEntryMark*pos.InvestedAmount + currentMark*buyAmount) /
		(pos.InvestedAmount + buyAmount)
	pos.LastObservedMark = currentMark
	pos.InvestedAmount += buyAmount
	pos.CumulativeBought += buyAmount
	st.Balance -= buyAmount
	return st, nil
}

// PartialSell sells sellAmount of invested principal at sellMark. The
// proceeds scale with the mark relative to the cost basis:
//
//	multiplier = sellMark / averageEntryMark
//	proceeds   = sellAmount * multiplier
//	realized   = proceeds - sellAmount
//
// Selling is against basis, not against mark-to-market value, so the
// amount may not exceed the invested principal. If the residual invested
// amount falls within CloseEpsilon the position transitions to closed:
// the invested amount is forced to exactly zero, the closure fields are
// frozen, and no further mutation of the position is accepted.
func PartialSell(s *models.LedgerState, id string, sellMark, sellAmount float64, now time.Time) (*models.LedgerState, error) {
	if !positiveFinite(sellMark) {
		return nil, ErrInvalidInput
	}
	target := s.FindPosition(id)
	if target == nil {
		return nil, ErrPositionNotFound
	}
	if target.IsClosed() {
		return nil, ErrPositionClosed
	}
	if !finite(sellAmount) || sellAmount <= 0 || sellAmount > target.InvestedAmount {
		return nil, ErrInvalidSellAmount
	}

	st := s.Clone()
	pos := st.FindPosition(id)

	multiplier := sellMark / pos.AverageEntryMark
	proceeds := sellAmount * multiplier
	realized := proceeds - sellAmount

	pos.LastObservedMark = sellMark
	pos.LastSellMark = sellMark
	pos.InvestedAmount -= sellAmount
	pos.RealizedGain += realized
	pos.CumulativeSoldUnits += sellAmount
	pos.CumulativeSoldProceeds += proceeds
	st.Balance += proceeds

	if pos.InvestedAmount <= CloseEpsilon {
		closePosition(pos, sellMark, now)
	}
	return st, nil
}

// closePosition freezes the closure-only fields. Closure is defined
// exactly as the invested amount reaching zero.
func closePosition(pos *models.Position, finalMark float64, now time.Time) {
	pos.Status = models.PositionClosed
	pos.InvestedAmount = 0
	pos.FinalMark = finalMark
	pos.TotalProceeds = pos.CumulativeSoldProceeds
	pos.FinalPnl = pos.RealizedGain
	if pos.CumulativeBought > 0 {
		pos.FinalPnlPercent = pos.FinalPnl / pos.CumulativeBought * 100
	} else {
		pos.FinalPnlPercent = 0
	}
	closedAt := now
	pos.ClosedAt = &closedAt
}

// SellAmountForProceeds converts a desired sell value at sellMark into
// the principal amount to pass to PartialSell:
//
//	sellAmount = desiredProceeds / (sellMark / averageEntryMark)
//
// Amounts within CloseEpsilon of the invested principal clamp to it so a
// "sell everything" value entry closes the position cleanly.
func SellAmountForProceeds(pos *models.Position, sellMark, desiredProceeds float64) (float64, error) {
	if pos == nil {
		return 0, ErrPositionNotFound
	}
	if pos.IsClosed() {
		return 0, ErrPositionClosed
	}
	if !positiveFinite(sellMark) || !positiveFinite(desiredProceeds) {
		return 0, ErrInvalidInput
	}

	multiplier := sellMark / pos.AverageEntryMark
	amount := desiredProceeds / multiplier
	if amount > pos.InvestedAmount+CloseEpsilon {
		return 0, ErrInvalidSellAmount
	}
	if amount > pos.InvestedAmount {
		amount = pos.InvestedAmount
	}
	return amount, nil
}

// MarkPosition records a newly observed mark on an open position. Purely
// observational: no financial side effects. Closed positions have frozen
// marks and reject the update.
func MarkPosition(s *models.LedgerState, id string, newMark float64) (*models.LedgerState, error) {
	if !positiveFinite(newMark) {
		return nil, ErrInvalidInput
	}
	target := s.FindPosition(id)
	if target == nil {
		return nil, ErrPositionNotFound
	}
	if target.IsClosed() {
		return nil, ErrPositionClosed
	}

	st := s.Clone()
	st.FindPosition(id).LastObservedMark = newMark
	return st, nil
}

// AdjustBalance applies an external deposit (positive delta) or
// withdrawal (negative delta) unrelated to any position.
func AdjustBalance(s *models.LedgerState, delta float64) (*models.LedgerState, error) {
	if !finite(delta) {
		return nil, ErrInvalidInput
	}
	if s.Balance+delta < 0 {
		return nil, ErrNegativeBalance
	}

	st := s.Clone()
	st.Balance += delta
	return st, nil
}
