package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// Shared albums come in two URL shapes:
//
//	https://www.icloud.com/sharedalbum/#B0abCdEfGhIj      (fragment token)
//	https://share.icloud.com/photos/abc0defGHIjklMNO      (path token)
//
// The fragment form may carry query parameters after the token.
func extractToken(albumURL string) (string, error) {
	switch {
	case strings.Contains(albumURL, "icloud.com/sharedalbum/#B"):
		u, err := url.Parse(albumURL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		fragment := u.Fragment
		if i := strings.IndexByte(fragment, '?'); i >= 0 {
			fragment = fragment[:i]
		}
		if !strings.HasPrefix(fragment, "B") {
			return "", ErrInvalidToken
		}
		return fragment, nil

	case strings.Contains(albumURL, "share.icloud.com/photos/"):
		u, err := url.Parse(albumURL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, seg := range segments {
			if seg == "photos" && i+1 < len(segments) && segments[i+1] != "" {
				return segments[i+1], nil
			}
		}
		return "", ErrInvalidToken

	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, albumURL)
	}
}

// partitionHost maps a token to the shared-streams API host. The first
// character of the token encodes the server partition.
func partitionHost(token string) string {
	partition := 1
	if len(token) > 1 {
		c := token[1]
		switch {
		case c >= '0' && c <= '9':
			partition = int(c-'0') + 1
		case c >= 'A' && c <= 'Z':
			// base62 digit values 10..35 map onto partitions 11..36
			partition = int(c-'A') + 11
		}
	}
	return fmt.Sprintf("p%02d-sharedstreams.icloud.com", partition)
}
