package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes and clients
// can localize on the class tag instead of matching message text.
var (
	ErrNotFound           = errors.New("not found")
	ErrAmbiguous          = errors.New("more than one record matched")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrNotVerified        = errors.New("user is not verified")
	ErrExpired            = errors.New("token has expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidInput       = errors.New("invalid input")
	ErrCredentialMismatch = errors.New("credential mismatch")
	ErrDuplicateValue     = errors.New("value already taken")
	ErrNotifierFailure    = errors.New("notifier failure")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)

// ErrorClass returns the machine-readable class for err, derived from the
// sentinel it wraps. Unrecognized errors classify as internal.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "notFound"
	case errors.Is(err, ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, ErrAlreadyVerified):
		return "alreadyVerified"
	case errors.Is(err, ErrNotVerified):
		return "notVerified"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidToken):
		return "invalidToken"
	case errors.Is(err, ErrInvalidInput):
		return "invalidInput"
	case errors.Is(err, ErrCredentialMismatch):
		return "credentialMismatch"
	case errors.Is(err, ErrDuplicateValue):
		return "duplicateValue"
	case errors.Is(err, ErrNotifierFailure):
		return "notifierFailure"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}

// DuplicateFieldsError reports every candidate field the uniqueness check
// found taken, not just the first. NoMessage suppresses the human-readable
// message for callers that localize on the field list themselves.
type DuplicateFieldsError struct {
	Fields    []string
	NoMessage bool
}

func NewDuplicateFieldsError(fields []string, noMessage bool) *DuplicateFieldsError {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	return &DuplicateFieldsError{Fields: sorted, NoMessage: noMessage}
}

func (e *DuplicateFieldsError) Error() string {
	if e.NoMessage {
		return ""
	}
	return "values already taken: " + strings.Join(e.Fields, ", ")
}

func (e *DuplicateFieldsError) Unwrap() error { return ErrDuplicateValue }
