package credentials

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialsNotFound is returned by Retrieve when no credentials have
	// been fetched successfully yet.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrCredentialsEnvNotFound means the credentials endpoint could not be
	// discovered from the environment.
	ErrCredentialsEnvNotFound = errors.New("container credentials endpoint not configured: " + RelativeURIEnvVar + " is not set")
)

// RequestError reports a failed credentials request: either the transport,
// the response status or the payload decode failed.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("requesting credentials from %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
