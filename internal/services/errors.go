package services

import "errors"

// Kind classifies a failure for the transport layer.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

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

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func validation(msg string) *Error { return newError(KindValidation, msg) }
func notFound(msg string) *Error   { return newError(KindNotFound, msg) }
func conflict(msg string) *Error   { return newError(KindConflict, msg) }

var (
	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid phone or password")
	ErrUnauthenticated    = newError(KindUnauthenticated, "authentication required")
	ErrAdminRequired      = newError(KindForbidden, "administrator role required")
	ErrNotOwner           = newError(KindForbidden, "you can only pay dues of your own apartment")

	ErrInvalidCard     = validation("card number is invalid")
	ErrInvalidAmount   = validation("amount must be a number greater than 0")
	ErrInvalidPeriod   = validation("period must be formatted as YYYY-MM")
	ErrInvalidRole     = validation("role must be admin or resident")
	ErrInvalidStatus   = validation("status must be 0 or 1")
	ErrAmountMismatch  = validation("payment amount must equal the due amount")
	ErrUnknownOccupant = validation("assigned user does not exist")

	ErrUserNotFound      = notFound("user not found")
	ErrApartmentNotFound = notFound("apartment not found")
	ErrDueNotFound       = notFound("due not found")

	ErrDuplicatePhone  = conflict("phone number is already registered")
	ErrDuplicateNumber = conflict("apartment number already exists")
	ErrAlreadyPaid     = conflict("due is already paid")

	ErrDataIntegrity = newError(KindInternal, "ledger data is inconsistent")
)

// KindOf reports the Kind of err. Anything outside the taxonomy, including
// db.ErrStoreUnavailable, is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
