package http

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

// RLHTTPClient is a rate limited HTTP client.
type RLHTTPClient struct {
	Client      *http.Client
	Ratelimiter *rate.Limiter
}

// Do sends an HTTP request.
func (c *RLHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.Ratelimiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.Client.Do(req)
}

// Get issues a GET request for url. The caller owns the response body.
func (c *RLHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// NewClient returns a rate limited http client.
func NewClient(rl *rate.Limiter) *RLHTTPClient {
	return &RLHTTPClient{
		Client:      http.DefaultClient,
		Ratelimiter: rl,
	}
}

// NewDefaultClient returns a client limited to a couple of requests per
// second, which is plenty for the registry's fair-use policy.
func NewDefaultClient() *RLHTTPClient {
	return NewClient(rate.NewLimiter(rate.Limit(2), 4))
}
