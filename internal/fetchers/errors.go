package fetchers

import (
	"fmt"
)

// FetchError reports a failed retrieval of one resource: a transport
// failure, a non-success status, or a payload that would not decode.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s", e.Resource)
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(resource, url string, status int, err error) *FetchError {
	return &FetchError{Resource: resource, URL: url, StatusCode: status, Err: err}
}
