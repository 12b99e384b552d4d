package client

import (
	"errors"
	"fmt"
)

// TransportError reports a request that never produced an HTTP response:
// unreachable host, timeout, cancellation or an aborted rate-limit wait.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError reports a non-2xx status or a body that could not be decoded.
// StatusCode is the HTTP status received; Err is set for decode failures.
type ResponseError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response from %s (status: %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsResponse reports whether err is, or wraps, a *ResponseError.
func IsResponse(err error) bool {
	var re *ResponseError
	return errors.As(err, &re)
}
