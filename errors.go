package skinfolio

import (
	"errors"
	"fmt"

	"github.com/etnz/skinfolio/date"
)

// Error categories. Callers match them with errors.Is.
var (
	// ErrInput reports a malformed transaction, row or file.
	ErrInput = errors.New("invalid input")

	// ErrOversell reports a sale of more items than held at that point of the ledger.
	ErrOversell = errors.New("oversell")

	// ErrOracleUnavailable reports a price lookup that could not be answered
	// (network, rate limit, malformed response). The price is unknown for this run.
	ErrOracleUnavailable = errors.New("price oracle unavailable")

	// ErrConflict reports a write against a stale version of a stored file.
	// The caller must read again before retrying.
	ErrConflict = errors.New("version conflict")

	// ErrNotFound reports an unknown transaction id.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured reports missing required configuration.
	ErrNotConfigured = errors.New("not configured")

	// ErrReadOnly reports a write attempted through a store that can only read.
	ErrReadOnly = errors.New("read-only store")
)

// OversellError is returned when a SELL transaction exceeds the quantity held.
type OversellError struct {
	TxID      string
	Date      date.Date
	Item      string
	Requested Quantity
	Held      Quantity
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %v of %q, position is only %v", e.Date, e.Requested, e.Item, e.Held)
}

// Unwrap makes errors.Is(err, ErrOversell) true.
func (e *OversellError) Unwrap() error { return ErrOversell }

// RowError reports a rejected row of a CSV file.
type RowError struct {
	Line int // 1-based, the header is line 1
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// inputErrorf returns an error wrapping ErrInput.
func inputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}
