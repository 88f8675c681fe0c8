package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/dzaky3022/wincal/internal/common"
)

// StatusError is a non-2xx response from the service. 5xx codes are
// treated as transient, 4xx codes map onto the common sentinels.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// wrapStatus converts an HTTP status into the project error taxonomy.
func wrapStatus(code int, message string) error {
	switch {
	case code == 401 || code == 403:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, message)
	case code == 404:
		return fmt.Errorf("%w: %s", common.ErrNotFound, message)
	case code >= 400 && code < 500:
		return fmt.Errorf("%w (%d): %s", common.ErrValidation, code, message)
	default:
		return &StatusError{Code: code, Message: message}
	}
}

// IsTransient reports whether err belongs to the retryable error class:
// timeouts, DNS failures, connection errors, truncated bodies, and 5xx
// responses. Auth, validation, and not-found errors are final for the
// current pass.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, common.ErrUnauthorized) ||
		errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrValidation) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// url.Error wraps every transport-level failure of net/http.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
