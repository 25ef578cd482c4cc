package models

import "errors"

// Domain error taxonomy. The storage layer translates driver-level failures
// into these sentinels so callers never branch on SQLSTATE codes.
var (
	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput: the request fails validation before any state mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientInventory: the reservation would exceed the property's
	// remaining capacity.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrInsufficientFunds: the wallet debit would make the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStaleRate: the exchange-rate snapshot is too old to honor.
	ErrStaleRate = errors.New("exchange rate too old")

	// ErrConflict: retryable contention (serialization failure, deadlock, or
	// a lost compare-and-swap). Retried internally up to a bounded count.
	ErrConflict = errors.New("transient conflict")

	// ErrDuplicateKey: a uniqueness guarantee fired (idempotency key or
	// deposit signature already recorded).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnavailable: the backing store cannot be reached. Surfaced
	// explicitly instead of degrading into empty results.
	ErrUnavailable = errors.New("storage unavailable")
)
