package domain

import (
	"errors"
	"fmt"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// RemoteServiceError reports a failed call to the commerce platform: transport
// failure, non-2xx response, rejected request or undecodable payload.
type RemoteServiceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}
