package checkout

import (
	"errors"
)

type Kind int

const (
	// KindInternal covers dependency failures. Its message is never shown
	// to customers.
	KindInternal Kind = iota
	KindValidation
	KindRejected
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a checkout failure whose Message is safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns KindInternal for any error that is not a *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

const (
	msgVerificationFailed = "Payment verification failed"
	msgOrderNotFound      = "Order not found"
	msgAlreadySettled     = "Order has already been settled"
	msgSettlementBusy     = "Payment for this order is already being processed"
)
