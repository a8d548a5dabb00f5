package models

import "time"

// PositionStatus is the lifecycle state of a position. The transition is
// one-way: open -> closed. Closed is terminal and freezes every financial
// field of the position.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// Position tracks a single simulated exposure against a market-cap mark.
//
// AverageEntryMark is the capital-weighted average of every mark at which
// SOL was committed; it is recomputed on each buy and frozen at closure.
// LastObservedMark is purely observational and never feeds realized
// figures. The cumulative fields only ever grow.
type Position struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Status PositionStatus `json:"status"`

	AverageEntryMark float64 `json:"average_entry_mark"`
	LastObservedMark float64 `json:"last_observed_mark"`

	InvestedAmount         float64 `json:"invested_amount"`
	CumulativeBought       float64 `json:"cumulative_bought"`
	CumulativeSoldUnits    float64 `json:"cumulative_sold_units"`
	CumulativeSoldProceeds float64 `json:"cumulative_sold_proceeds"`
	RealizedGain           float64 `json:"realized_gain"`
	LastSellMark           float64 `json:"last_sell_mark,omitempty"`

	OpenedAt time.Time `json:"opened_at"`

	// Closure-only fields, set exactly once when InvestedAmount reaches
	// zero, immutable thereafter.
	FinalMark       float64    `json:"final_mark,omitempty"`
	TotalProceeds   float64    `json:"total_proceeds,omitempty"`
	FinalPnl        float64    `json:"final_pnl,omitempty"`
	FinalPnlPercent float64    `json:"final_pnl_percent,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

// IsClosed reports whether the position is terminal.
func (p *Position) IsClosed() bool {
	return p.Status == PositionClosed
}

// Snapshot is one point of the balance / open-value time series.
// Immutable once appended.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
	OpenValue float64   `json:"open_value"`
}

// LedgerState is the authoritative session state: free cash, positions in
// most-recent-first order, the monotonic id counter and the snapshot
// series. It is pure data; all mutation goes through the engine, which
// works on deep copies so a rejected operation never leaves a partial
// write behind.
type LedgerState struct {
	StartingBalance *float64    `json:"starting_balance"`
	Balance         float64     `json:"balance"`
	NextID          int64       `json:"next_id"`
	Positions       []*Position `json:"positions"`
	History         []Snapshot  `json:"history"`
}

// NewLedgerState returns the canonical uninitialized state.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		NextID:    1,
		Positions: []*Position{},
		History:   []Snapshot{},
	}
}

// Initialized reports whether a starting balance has been set for the
// current session.
func (s *LedgerState) Initialized() bool {
	return s.StartingBalance != nil
}

// FindPosition returns the position with the given id, or nil.
func (s *LedgerState) FindPosition(id string) *Position {
	for _, p := range s.Positions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone creates a deep copy of the ledger state so that readers and the
// persistence loop never share memory with the authoritative instance.
func (s *LedgerState) Clone() *LedgerState {
	if s == nil {
		return nil
	}

	stateCopy := *s

	if s.StartingBalance != nil {
		sb := *s.StartingBalance
		stateCopy.StartingBalance = &sb
	}

	stateCopy.Positions = make([]*Position, len(s.Positions))
	for i, p := range s.Positions {
		posCopy := *p
		if p.ClosedAt != nil {
			closedAt := *p.ClosedAt
			posCopy.ClosedAt = &closedAt
		}
		stateCopy.Positions[i] = &posCopy
	}

	stateCopy.History = make([]Snapshot, len(s.History))
	copy(stateCopy.History, s.History)

	return &stateCopy
}
