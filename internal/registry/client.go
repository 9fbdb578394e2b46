package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotFound is returned when the registry has no such package.
	ErrNotFound = errors.New("package not found")

	// ErrRegistry is returned for other registry failures (unexpected
	// status codes, undecodable responses).
	ErrRegistry = errors.New("registry error")
)

// httpClient is the HTTP layer shared by the registry sources. It applies
// the configured User-Agent and timeout and maps response statuses onto the
// package's sentinel errors.
type httpClient struct {
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

func newHTTPClient(timeout time.Duration, userAgent string, logger *log.Logger) *httpClient {
	return &httpClient{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *httpClient) getJSON(ctx context.Context, url string, v any) error {
	c.logger.Debug("fetching", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistry, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrRegistry, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRegistry, err)
	}
	return nil
}
