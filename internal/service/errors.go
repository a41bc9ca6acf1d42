package service

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so callers can tell which kind
// of precondition was violated. Every failure carries a message naming
// the specific check, not just the class.
type Kind int

const (
	// KindValidation: malformed or out-of-range input. The caller must
	// correct the request and resubmit.
	KindValidation Kind = iota + 1

	// KindNotFound: unknown group or account.
	KindNotFound

	// KindUnauthorized: the caller is not the required principal
	// (creator-only operations, member-only operations).
	KindUnauthorized

	// KindState: the entity is in the wrong lifecycle phase (already
	// active, group full, turn taken, cycles not initialized,
	// contributions incomplete). The caller must change state first.
	KindState

	// KindPayment: the attached value does not meet the requirement
	// (escrow below minimum, contribution amount mismatch).
	KindPayment

	// KindExhausted: nothing left to operate on; every cycle already
	// holds this account's contribution, or every cycle is paid out.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindState:
		return "state"
	case KindPayment:
		return "payment"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every ledger operation.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// errf builds an *Error with a formatted message.
func errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or 0 if err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
