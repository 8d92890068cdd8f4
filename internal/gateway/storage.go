// internal/gateway/storage.go
package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrForeignURL = errors.New("url does not point into the bucket")

// ObjectPathFromURL recovers the stored object path from a public URL by
// taking everything after the last "/<bucket>/" path segment.
func ObjectPathFromURL(rawURL, bucket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid image url %q: not absolute", rawURL)
	}

	marker := "/" + bucket + "/"
	idx := strings.LastIndex(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("%q: %w", rawURL, ErrForeignURL)
	}

	path := u.Path[idx+len(marker):]
	if path == "" {
		return "", fmt.Errorf("%q: %w", rawURL, ErrForeignURL)
	}
	return path, nil
}
