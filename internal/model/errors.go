package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy.
var (
	// ErrInvalidUnit marks an unrecognized unit token in a conversion call.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrStoreUnavailable marks a data store that stayed unreachable after the
	// connection retry budget. Fatal for the session.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IllegalDispatchError reports a tool call rejected before it reached the
// store: required fields missing or argument values malformed.
type IllegalDispatchError struct {
	Tool    string
	Missing []string
	Reason  string
}

func (e *IllegalDispatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("illegal %s call: missing required fields: %s",
			e.Tool, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("illegal %s call: %s", e.Tool, e.Reason)
}

// IsIllegalDispatch reports whether err is an IllegalDispatchError.
func IsIllegalDispatch(err error) bool {
	var target *IllegalDispatchError
	return errors.As(err, &target)
}
