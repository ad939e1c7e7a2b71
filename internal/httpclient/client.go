// Package httpclient provides the outbound HTTP client used for text
// generation requests.
//
// The client restricts schemes to http/https and caps redirects. Private
// addresses are deliberately allowed: pointing the generator at a local
// OpenAI-compatible server (Ollama, LocalAI) is a supported configuration.
package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/synthfhir/qrforge/errors"
)

// Client wraps http.Client with scheme validation and a redirect cap.
type Client struct {
	*http.Client
	allowedSchemes []string
	maxRedirects   int
}

// New creates an HTTP client with the given request timeout.
func New(timeout time.Duration) *Client {
	client := &Client{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		allowedSchemes: []string{"http", "https"},
		maxRedirects:   10,
	}

	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= client.maxRedirects {
			return errors.Newf("stopped after %d redirects", client.maxRedirects)
		}
		if err := client.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return client
}

// validateURL rejects URLs outside the allowed schemes or without a host.
func (c *Client) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, allowedScheme := range c.allowedSchemes {
		if scheme == allowedScheme {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes)
	}

	if u.Hostname() == "" {
		return errors.New("URL missing hostname")
	}

	return nil
}

// Do executes an HTTP request after validating its URL.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

// Wrap wraps an existing http.Client without changing its transport.
// Intended for tests that target an httptest.Server.
func Wrap(client *http.Client) *Client {
	return &Client{
		Client:         client,
		allowedSchemes: []string{"http", "https"},
		maxRedirects:   10,
	}
}
