package views

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-listviews/pkg/calendar"
	"github.com/goliatone/go-listviews/pkg/formset"
	"github.com/goliatone/go-listviews/pkg/store"
)

// ErrMethodNotAllowed is returned for verbs a view does not serve.
var ErrMethodNotAllowed = errors.New("views: method not allowed")

// StatusError carries the HTTP status a failure maps to.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Code)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, http.StatusText(e.Code), e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// NewStatusError wraps err with code.
func NewStatusError(code int, err error) *StatusError {
	return &StatusError{Code: code, Err: err}
}

// StatusCode maps err to an HTTP status. Configuration errors and store
// failures are server errors; missing records, unparsable calendar dates and
// broken management forms are client errors.
func StatusCode(err error) int {
	var se *StatusError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &se):
		return se.Code
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, store.ErrNotFound), errors.Is(err, calendar.ErrInvalidDate):
		return http.StatusNotFound
	case errors.Is(err, formset.ErrManagementForm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
