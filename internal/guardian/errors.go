package guardian

import (
	"errors"
	"fmt"
)

// ErrNoItemID reports a single-item query built without an item id.
// Sending it anyway would GET the bare base URL.
var ErrNoItemID = errors.New("guardian: single-item query has no item id")

// NetworkError is a transport-level failure: DNS, connection, timeout.
// The request may have never reached the API; callers can retry at
// their own discretion, the client never retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("guardian: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx reply from the API. Message carries whatever
// structured detail the API returned, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("guardian: api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("guardian: api error: status %d: %s", e.StatusCode, e.Message)
}

// DecodeError is a 2xx reply whose body did not match the expected
// shape. Not retryable: it indicates an API change or a bug.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("guardian: decode error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("guardian: decode error: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
