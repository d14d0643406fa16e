// Package f1api talks to the two remote data providers: the session/timing
// API serving lap, result, weather and telemetry documents, and an
// Ergast-compatible REST API serving schedules, results and standings.
// Responses go through an optional on-disk cache injected at construction.
package f1api

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/kumaabi/F1DataViz/pkg/cache"
)

var (
	// ErrNotFound means the provider has no data for the requested unit.
	ErrNotFound = errors.New("f1api: not found")
	// ErrUnsupported means the provider does not offer the requested capability.
	ErrUnsupported = errors.New("f1api: unsupported by provider")
)

type Client struct {
	sessionBase string
	ergastBase  string
	store       *cache.Cache

	mu      sync.Mutex
	archive *bool // capability probe result, nil until probed
}

// NewClient builds a client for both providers. store may be nil, in which
// case every call goes to the network.
func NewClient(sessionBase, ergastBase string, store *cache.Cache) *Client {
	return &Client{
		sessionBase: sessionBase,
		ergastBase:  ergastBase,
		store:       store,
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.store != nil {
		if body, ok := c.store.Get(url); ok {
			return body, nil
		}
	}

	// Make a get request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Do the request
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", url)
	}

	// Close the response body on function return
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", url)
	}

	if c.store != nil {
		c.store.Put(url, body)
	}
	return body, nil
}
