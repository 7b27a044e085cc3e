package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited       = errors.New("rate limited")
	errServerError       = errors.New("server error")
	errUnexpected        = errors.New("unexpected status code")
	errCircuitOpen       = errors.New("circuit breaker open")
	errNoHTTPClient      = errors.New("http client not configured")
	errUnsupportedScheme = errors.New("unsupported uri scheme")
)

// Client fetches raw documents from http(s) endpoints and file:// fixtures.
// HTTP calls go through a circuit breaker and are never retried.
type Client struct {
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client around an existing http.Client.
func New(client *http.Client) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "forecastio",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http:    client,
		circuit: cb,
	}
}

// Request returns the full body behind uri.
func (c *Client) Request(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing uri: %w", err)
	}

	switch u.Scheme {
	case "file":
		return readFile(u)
	case "http", "https":
		return c.get(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedScheme, u.Scheme)
	}
}

// readFile serves file:///abs/path and file://relative/path alike.
func readFile(u *url.URL) ([]byte, error) {
	path := u.Path
	if u.Host != "" {
		path = u.Host + u.Path
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, uri string) ([]byte, error) {
	if c.http == nil {
		return nil, errNoHTTPClient
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
