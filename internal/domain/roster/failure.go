package roster

import "errors"

// FailReason classifies an expected business failure of a claim or trade.
// These are recorded as outcome values on the failed item, never raised as
// errors; error returns are reserved for infrastructure faults.
type FailReason string

const (
	FailAlreadyOwned     FailReason = "AlreadyOwned"
	FailStaleState       FailReason = "StaleState"
	FailRosterFull       FailReason = "RosterFull"
	FailCapacityExceeded FailReason = "CapacityExceeded"
)

// Sentinel errors for the synchronous add/drop path, where the caller is
// waiting on the response and an error return is the natural shape.
var (
	ErrAlreadyOwned     = errors.New("player already owned in league")
	ErrStaleState       = errors.New("expected roster state no longer holds")
	ErrRosterFull       = errors.New("roster size limit reached")
	ErrCapacityExceeded = errors.New("position capacity exceeded")
	ErrLocked           = errors.New("roster is locked")
)
