package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is an error carrying the HTTP status it should be answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, msg string) *Failure {
	return &Failure{Code: code, Message: msg}
}

var (
	ForbiddenError          = New(http.StatusForbidden, "You don't have the required permissions")
	ResourceRestrictedError = New(http.StatusForbidden, "You don't have permission to access this resource")
)

// Reservation engine error kinds. Match them with errors.Is, attach detail with Wrap.
var (
	ErrInvalidInput            = New(http.StatusBadRequest, "invalid input")
	ErrInvalidDateRange        = New(http.StatusBadRequest, "invalid date range")
	ErrInvalidGuestOrRoomCount = New(http.StatusBadRequest, "invalid guest or room count")
	ErrInsufficientInventory   = New(http.StatusBadRequest, "insufficient inventory")
	ErrNotFound                = New(http.StatusNotFound, "not found")
	ErrInvalidStateTransition  = New(http.StatusConflict, "invalid state transition")
	ErrConflict                = New(http.StatusConflict, "concurrent modification")
	ErrInvariantViolation      = New(http.StatusInternalServerError, "invariant violation")
)

// Wrap annotates one of the error kinds above with a formatted detail.
// The result still matches the kind with errors.Is and keeps its HTTP code.
func Wrap(kind *Failure, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// BadRequest turns err into a 400, keeping its message. Nil stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

// Conflict is a 409 that does not match ErrConflict, for business-rule refusals.
func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// NotFound returns a not-found error for the named entity.
func NotFound(entityName string) error {
	return Wrap(ErrNotFound, "%s", entityName)
}

// IsFailure reports whether err carries a Failure anywhere in its chain.
func IsFailure(err error) bool {
	var fail *Failure

	return errors.As(err, &fail)
}

// GetCode returns the status of the first Failure in err's chain, 500 otherwise.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
