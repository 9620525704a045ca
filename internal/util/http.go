package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrStatus is returned for non-200 responses.
	ErrStatus = errors.New("unexpected http status")
	// ErrTooLarge is returned when a body exceeds the caller's limit.
	ErrTooLarge = errors.New("response body too large")
)

// GetBytes fetches url with client. The request carries no cookies or
// credentials beyond what the URL itself contains. maxBytes <= 0 means no limit.
func GetBytes(ctx context.Context, client *http.Client, url, userAgent string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body := io.Reader(resp.Body)
	if maxBytes > 0 {
		body = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
