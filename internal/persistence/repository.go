package persistence

import "sol-paper-ledger/internal/models"

// StateRepository defines the interface for ledger state persistence.
// It abstracts the underlying storage mechanism (e.g., BadgerDB,
// in-memory) from the rest of the application.
type StateRepository interface {
	// SaveState atomically saves the entire ledger state.
	SaveState(state *models.LedgerState) error

	// LoadState loads the ledger state from storage. It always returns a
	// usable state: missing or malformed data degrades to the canonical
	// uninitialized state, never an error the caller has to handle
	// before continuing. A non-nil error is advisory (worth logging).
	LoadState() (*models.LedgerState, error)

	// Close gracefully closes the connection to the database.
	Close() error
}
