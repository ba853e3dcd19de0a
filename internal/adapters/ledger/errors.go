package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrInvalidEntry = errors.New("ledger entry needs id and status")
	ErrCorrupt      = errors.New("ledger data is corrupt")
	ErrUnavailable  = errors.New("ledger backend unavailable")
)
