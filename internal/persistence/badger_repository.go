package persistence

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/dgraph-io/badger/v3"

	"sol-paper-ledger/internal/models"
)

// badgerRepository is the BadgerDB implementation of the StateRepository.
type badgerRepository struct {
	db       *badger.DB
	stateKey []byte
}

// NewBadgerRepository creates and returns a new repository instance
// connected to a BadgerDB database.
func NewBadgerRepository(dbPath string) (StateRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Disable Badger's own logging to keep the app's logs clean. Errors
	// are still returned from DB operations.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerRepository{
		db:       db,
		stateKey: []byte("ledger_state"),
	}, nil
}

// SaveState atomically saves the entire ledger state as a single JSON
// blob under a predefined key.
func (r *badgerRepository) SaveState(state *models.LedgerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.stateKey, data)
	})
}

// LoadState loads the ledger state from storage. Missing or malformed
// data is treated as corruption and replaced by a fresh uninitialized
// state; the decode error is returned alongside for logging.
func (r *badgerRepository) LoadState() (*models.LedgerState, error) {
	var raw []byte

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.stateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.NewLedgerState(), nil
	}
	if err != nil {
		return models.NewLedgerState(), err
	}

	state, err := decodeState(raw)
	if err != nil {
		return models.NewLedgerState(), err
	}
	return state, nil
}

// Close gracefully closes the connection to the database.
func (r *badgerRepository) Close() error {
	return r.db.Close()
}

// decodeState strictly decodes a persisted ledger state and fails closed
// on any structural mismatch. Older saved shapes without a history field
// decode with an empty series.
func decodeState(data []byte) (*models.LedgerState, error) {
	if len(data) == 0 {
		return nil, errors.New("state value is empty in database")
	}

	var state models.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.NextID < 1 {
		return nil, errors.New("persisted state has invalid id counter")
	}
	if state.Balance < 0 || math.IsNaN(state.Balance) || math.IsInf(state.Balance, 0) {
		return nil, errors.New("persisted state has invalid balance")
	}
	for _, p := range state.Positions {
		if p == nil || p.ID == "" || p.AverageEntryMark <= 0 || p.InvestedAmount < 0 {
			return nil, errors.New("persisted state has invalid position")
		}
	}

	if state.Positions == nil {
		state.Positions = []*models.Position{}
	}
	if state.History == nil {
		state.History = []models.Snapshot{}
	}
	return &state, nil
}
