package solr

import (
	"errors"
	"fmt"
)

var (
	// ErrBaseURLRequired is returned when no base URL is configured.
	ErrBaseURLRequired = errors.New("solr config: BaseURL is required")

	// ErrInvalidBaseURL is returned when the base URL cannot be used.
	ErrInvalidBaseURL = errors.New("solr config: invalid BaseURL")

	// ErrInvalidTimeout is returned for a non-positive request timeout.
	ErrInvalidTimeout = errors.New("solr config: Timeout must be greater than 0")

	// ErrTransport classifies failures to get any response from the service.
	ErrTransport = errors.New("transport error")

	// ErrStatus classifies responses with a non-2xx status.
	ErrStatus = errors.New("unexpected status")
)

// TransportError reports a request that never produced a response
// (connection refused, timeout, cancelled context).
type TransportError struct {
	Op  string // extract, commit or ping
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string // First bytes of the response body, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// IsSuccess reports whether an HTTP status code counts as success.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
