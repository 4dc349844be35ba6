package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is returned when the page has no result table where the kind expects one.
	ErrNoMatch = errors.New("no result table found")
	// ErrEmptyBody is returned when upstream answers without content.
	ErrEmptyBody = errors.New("empty response body")
	// ErrUnexpectedStatus is returned for non-2xx answers.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// FetchError reports a failed upstream request.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: %v (%d)", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
