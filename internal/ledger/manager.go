// Package ledger owns the authoritative in-memory ledger state and wraps
// the engine's pure transitions with the single-writer discipline the
// rest of the application relies on: operations apply serially, readers
// get deep copies, and every successful transition is recorded in the
// history series, journaled, and persisted best-effort in the background.
package ledger

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"sol-paper-ledger/internal/engine"
	"sol-paper-ledger/internal/journal"
	"sol-paper-ledger/internal/models"
	"sol-paper-ledger/internal/persistence"
	"sol-paper-ledger/internal/recorder"
)

// Operation names as they appear in the journal.
const (
	OpInit         = "init"
	OpOpen         = "open"
	OpBuy          = "buy"
	OpSell         = "sell"
	OpRevise       = "revise"
	OpMark         = "mark"
	OpAdjust       = "adjust"
	OpReset        = "reset"
	OpClearHistory = "clear_history"
)

// Manager is responsible for all state mutations and persistence.
// It ensures that all state changes are processed serially.
type Manager struct {
	mu        sync.Mutex
	state     *models.LedgerState
	repo      persistence.StateRepository
	journal   *journal.Journal
	sessionID string

	persistChan chan *models.LedgerState
	stopChan    chan struct{}
	doneChan    chan struct{}

	logger *zap.Logger
	now    func() time.Time
}

// NewManager loads the persisted state (degrading to a fresh session on
// corruption) and returns a manager ready to Start. The journal may be
// nil, in which case no audit trail is kept.
func NewManager(repo persistence.StateRepository, jrnl *journal.Journal, logger *zap.Logger) (*Manager, error) {
	state, err := repo.LoadState()
	if err != nil {
		logger.Sugar().Warnf("Could not load previous state, starting fresh: %v", err)
	}

	m := &Manager{
		state:       state,
		repo:        repo,
		journal:     jrnl,
		persistChan: make(chan *models.LedgerState, 128),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
		logger:      logger,
		now:         time.Now,
	}

	if jrnl != nil {
		id, err := jrnl.CurrentSession()
		if err != nil {
			logger.Sugar().Warnf("Journal session unavailable: %v", err)
		}
		m.sessionID = id
	}
	return m, nil
}

// Start begins the asynchronous persistence loop.
func (m *Manager) Start() {
	go m.persistenceLoop()
}

// Close stops the persistence loop, drains pending snapshots and writes a
// final synchronous save so a clean shutdown never loses state.
func (m *Manager) Close() error {
	close(m.stopChan)
	<-m.doneChan

	m.mu.Lock()
	final := m.state.Clone()
	m.mu.Unlock()
	return m.repo.SaveState(final)
}

// persistenceLoop handles the asynchronous saving of state snapshots.
// Persistence is fire-and-forget: a failed write is logged and never
// rolls back the in-memory state.
func (m *Manager) persistenceLoop() {
	defer close(m.doneChan)
	for {
		select {
		case stateToSave := <-m.persistChan:
			if err := m.repo.SaveState(stateToSave); err != nil {
				m.logger.Sugar().Errorf("Failed to save state: %v", err)
			}
		case <-m.stopChan:
			// Drain whatever is still queued before shutting down.
			for {
				select {
				case stateToSave := <-m.persistChan:
					if err := m.repo.SaveState(stateToSave); err != nil {
						m.logger.Sugar().Errorf("Failed to save state during shutdown: %v", err)
					}
				default:
					return
				}
			}
		}
	}
}

// State returns a deep copy of the current state for safe reading.
func (m *Manager) State() *models.LedgerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// SessionID identifies the current journal session; empty without a
// journal.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Journal exposes the audit journal for read-only consumers; may be nil.
func (m *Manager) Journal() *journal.Journal {
	return m.journal
}

// apply runs one engine transition under the write lock. On success the
// new state replaces the old one, the snapshot series is updated, a
// journal entry is appended and a deep copy is queued for persistence.
// On rejection the prior state is left untouched.
func (m *Manager) apply(op, positionID string, mark, amount float64, fn func(*models.LedgerState) (*models.LedgerState, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.state)
	if err != nil {
		return err
	}

	now := m.now()
	// Reset and clear-history must leave the series empty rather than
	// immediately re-seeding it with a point.
	if op != OpReset && op != OpClearHistory {
		recorder.RecordIfChanged(next, now)
	}
	m.state = next

	// An open mints its id inside the transition; pick it up for the
	// journal.
	if op == OpOpen && len(next.Positions) > 0 {
		positionID = next.Positions[0].ID
	}

	// A new or reset session gets a fresh journal session id, so the
	// entry below already lands in the new session.
	if op == OpInit || op == OpReset {
		m.rotateSession()
	}

	m.journalAppend(journal.Entry{
		SessionID:    m.sessionID,
		Timestamp:    now,
		Op:           op,
		PositionID:   positionID,
		Mark:         mark,
		Amount:       amount,
		BalanceAfter: next.Balance,
	})
	m.persistChan <- next.Clone()
	return nil
}

func (m *Manager) journalAppend(e journal.Entry) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Append(e); err != nil {
		m.logger.Sugar().Warnf("Failed to append journal entry: %v", err)
	}
}

// InitializeSession sets the starting balance for a fresh session and
// rotates the journal session id.
func (m *Manager) InitializeSession(startingAmount float64) error {
	return m.apply(OpInit, "", 0, startingAmount, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.InitializeSession(s, startingAmount)
	})
}

// OpenPosition opens a new position and returns a copy of it.
func (m *Manager) OpenPosition(name string, entryMark, amount float64) (*models.Position, error) {
	var id string
	err := m.apply(OpOpen, "", entryMark, amount, func(s *models.LedgerState) (*models.LedgerState, error) {
		next, err := engine.OpenPosition(s, name, entryMark, amount, m.now())
		if err == nil {
			id = next.Positions[0].ID
		}
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return m.position(id), nil
}

// ReviseOpenPosition applies a manual override to an open position.
func (m *Manager) ReviseOpenPosition(id string, rev engine.Revision) error {
	return m.apply(OpRevise, id, 0, 0, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.ReviseOpenPosition(s, id, rev)
	})
}

// BuyMore performs a DCA buy into an open position.
func (m *Manager) BuyMore(id string, currentMark, buyAmount float64) error {
	return m.apply(OpBuy, id, currentMark, buyAmount, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.BuyMore(s, id, currentMark, buyAmount)
	})
}

// PartialSell sells principal at the given mark and returns a copy of the
// updated position so callers can report a closure.
func (m *Manager) PartialSell(id string, sellMark, sellAmount float64) (*models.Position, error) {
	err := m.apply(OpSell, id, sellMark, sellAmount, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.PartialSell(s, id, sellMark, sellAmount, m.now())
	})
	if err != nil {
		return nil, err
	}
	return m.position(id), nil
}

// SellForProceeds converts a desired sell value into a principal amount
// and sells it.
func (m *Manager) SellForProceeds(id string, sellMark, desiredProceeds float64) (*models.Position, error) {
	var amount float64
	err := m.apply(OpSell, id, sellMark, desiredProceeds, func(s *models.LedgerState) (*models.LedgerState, error) {
		pos := s.FindPosition(id)
		if pos == nil {
			return nil, engine.ErrPositionNotFound
		}
		a, err := engine.SellAmountForProceeds(pos, sellMark, desiredProceeds)
		if err != nil {
			return nil, err
		}
		amount = a
		return engine.PartialSell(s, id, sellMark, amount, m.now())
	})
	if err != nil {
		return nil, err
	}
	return m.position(id), nil
}

// MarkPosition records a newly observed mark on an open position.
func (m *Manager) MarkPosition(id string, newMark float64) error {
	return m.apply(OpMark, id, newMark, 0, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.MarkPosition(s, id, newMark)
	})
}

// AdjustBalance applies an external deposit or withdrawal.
func (m *Manager) AdjustBalance(delta float64) error {
	return m.apply(OpAdjust, "", 0, delta, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.AdjustBalance(s, delta)
	})
}

// ResetSession discards all state and returns to the uninitialized
// session, rotating the journal session id.
func (m *Manager) ResetSession() error {
	return m.apply(OpReset, "", 0, 0, func(s *models.LedgerState) (*models.LedgerState, error) {
		return engine.ResetSession(s), nil
	})
}

// ClearHistory empties the snapshot series without touching balance or
// positions.
func (m *Manager) ClearHistory() error {
	return m.apply(OpClearHistory, "", 0, 0, func(s *models.LedgerState) (*models.LedgerState, error) {
		next := s.Clone()
		recorder.ClearSeries(next)
		return next, nil
	})
}

func (m *Manager) rotateSession() {
	if m.journal == nil {
		return
	}
	id, err := m.journal.RotateSession()
	if err != nil {
		m.logger.Sugar().Warnf("Failed to rotate journal session: %v", err)
		return
	}
	m.sessionID = id
}

// position returns a deep copy of one position, or nil.
func (m *Manager) position(id string) *models.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.state.FindPosition(id)
	if p == nil {
		return nil
	}
	posCopy := *p
	if p.ClosedAt != nil {
		closedAt := *p.ClosedAt
		posCopy.ClosedAt = &closedAt
	}
	return &posCopy
}
