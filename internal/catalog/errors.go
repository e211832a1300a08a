package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means the album URL is not a recognized shared-album link.
	ErrInvalidURL = errors.New("not a recognized shared album URL")
	// ErrInvalidToken means the album URL carried no usable access token.
	ErrInvalidToken = errors.New("missing or invalid album token")
	// ErrNoRendition means a photo had no downloadable rendition at all.
	ErrNoRendition = errors.New("no rendition with a download URL")
)

// FetchError wraps a transport or protocol failure talking to the
// remote collection.
type FetchError struct {
	Op  string
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %q: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
