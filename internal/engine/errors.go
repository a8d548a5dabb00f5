package engine

import "errors"

// Rejection reasons returned by engine operations. Every operation either
// returns a wholly new valid state or one of these errors with the input
// state untouched; nothing process-fatal ever crosses the engine boundary.
var (
	// ErrInsufficientBalance means an attempted buy, open or invested
	// increase exceeds the available cash balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPositionNotFound means the referenced position id does not exist
	// in the current state.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPositionClosed means a mutation was attempted on a closed
	// position.
	ErrPositionClosed = errors.New("position is closed")

	// ErrInvalidSellAmount means the sell amount is not positive or
	// exceeds the invested principal.
	ErrInvalidSellAmount = errors.New("invalid sell amount")

	// ErrNegativeBalance means a balance adjustment would drive the cash
	// balance below zero.
	ErrNegativeBalance = errors.New("balance would become negative")

	// ErrInvalidInput means a numeric argument was non-finite or
	// non-positive where a positive finite value is required.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyInitialized means InitializeSession was called on a
	// session that already has a starting balance.
	ErrAlreadyInitialized = errors.New("session already initialized")
)
