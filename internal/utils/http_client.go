package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around resty.Client for talking to a running
// library server, either from the admin tool or from end-to-end tests.
//
// The client keeps a cookie jar, so a login response's session cookie is
// sent on every following request.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client bound to baseURL. A zero timeout leaves
// the resty default (no timeout).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}

// WithoutRedirects stops the client from following redirects so callers can
// inspect the Location header of a redirect-after-POST response.
func (c *HTTPClient) WithoutRedirects() *HTTPClient {
	c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	return c
}
