package processor

import (
	"errors"
	"fmt"
)

// InvalidTransactionError is a user-caused rejection: a duplicate id, a
// missing reference, a rule violation, or an insufficient quantity. It
// carries a human-readable reason and guarantees zero mutation, because
// every handler exhausts its guard checks before issuing any write. Any
// other error returned by the processor is an engine fault (state context
// timeout or transport failure) and aborts the invocation.
type InvalidTransactionError struct {
	Reason string
}

// Error returns the rejection reason.
func (e *InvalidTransactionError) Error() string {
	return e.Reason
}

// invalidf builds a rejection with a formatted reason.
func invalidf(format string, args ...any) error {
	return &InvalidTransactionError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidTransaction reports whether err is a validation rejection rather
// than an engine fault.
func IsInvalidTransaction(err error) bool {
	var invalid *InvalidTransactionError
	return errors.As(err, &invalid)
}
