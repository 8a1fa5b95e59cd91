package qiita

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotApplicable marks an acquisition path that cannot serve the request
// at all, as opposed to one that served it and found nothing. The fallback
// coordinator moves to the next source on it; it is never shown to the user
// as an error.
var ErrNotApplicable = errors.New("source not applicable")

// StatusError carries a non-2xx response status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %d", e.Code)
}

// Unauthorized reports whether the status points at a credential problem,
// which is worth a distinct warning since the user can act on it.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}
