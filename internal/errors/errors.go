package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMemberNotFound is returned when no member exists for an id.
	ErrMemberNotFound = errors.New("member not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email belongs to another member.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when no member matches the email
	// and password pair. It never says which of the two was wrong.
	ErrInvalidCredentials = errors.New("email or password incorrect")
)

// PageError carries the status and message for a rendered error view.
type PageError struct {
	StatusCode int
	Message    string
}

func (e *PageError) Error() string {
	return e.Message
}

// NewPageError creates a page error with an explicit status and message.
func NewPageError(statusCode int, message string) *PageError {
	return &PageError{StatusCode: statusCode, Message: message}
}

// MapErrorToPage maps domain errors to the error page shown to the member.
func MapErrorToPage(err error) *PageError {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		return NewPageError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		return NewPageError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewPageError(http.StatusUnauthorized, err.Error())
	default:
		return NewPageError(http.StatusInternalServerError, "internal server error")
	}
}
