package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Ledger backends and record stores
// return these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: no value stored under the key
// - ErrConflict: a concurrent transaction invalidated this one's read set
// - ErrAlreadyUsed: a one-shot resource (voucher) was already consumed
// - ErrReadOnly: a write was attempted inside an evaluate-only transaction
// - ErrUnavailable: backend temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrReadOnly    = errors.New("read-only transaction")
	ErrUnavailable = errors.New("unavailable")
)
