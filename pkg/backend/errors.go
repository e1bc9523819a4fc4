package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse means the backend answered 2xx without the expected fields.
var ErrMalformedResponse = errors.New("malformed backend response")

// HTTPError is returned for any non-2xx answer.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Backend error: %d - %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// RemoteError carries a failure the backend reported inside a 2xx payload.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func malformed(what string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, what)
}
