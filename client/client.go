// Package client is the Go SDK for the Village Angel API.
//
// A Client carries the token pair and renews it transparently: expired
// access tokens are refreshed once and the original call retried, and
// any X-New-Access-Token the server volunteers is adopted on the spot.
package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	vahttp "github.com/shashiranjanraj/villageangel/pkg/http"
)

// Header names shared with the server's auth middleware.
const (
	refreshHeader   = "X-Refresh-Token"
	newAccessHeader = "X-New-Access-Token"
)

// APIError is the server's flat error shape.
type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to one Village Angel deployment.
type Client struct {
	baseURL string

	mu      sync.RWMutex
	access  string
	refresh string

	// OnTokens is called whenever the token pair changes, letting the
	// session layer persist it. May be nil.
	OnTokens func(access, refresh string)
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// SetTokens installs a token pair, e.g. one restored from disk.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.access = access
	c.refresh = refresh
	fn := c.OnTokens
	c.mu.Unlock()

	if fn != nil {
		fn(access, refresh)
	}
}

// Tokens returns the current token pair.
func (c *Client) Tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access, c.refresh
}

// ClearTokens drops the pair, e.g. on logout.
func (c *Client) ClearTokens() { c.SetTokens("", "") }

// AccessExpiry reports when the current access token expires. The exp
// claim is read without verifying the signature; only the server can do
// that, and the client only needs the timestamp for scheduling.
func (c *Client) AccessExpiry() (time.Time, bool) {
	access, _ := c.Tokens()
	return tokenExpiry(access)
}

func tokenExpiry(jwt string) (time.Time, bool) {
	parts := strings.Split(jwt, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(raw, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.Exp, 0), true
}

// do sends one API request. On a 401 it refreshes the access token once
// and retries; a second 401 surfaces as the error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	err := c.send(ctx, method, path, body, out)

	var apiErr *APIError
	if asAPIError(err, &apiErr) && apiErr.StatusCode == 401 {
		if _, refresh := c.Tokens(); refresh != "" {
			if rerr := c.RefreshAccess(ctx); rerr == nil {
				return c.send(ctx, method, path, body, out)
			}
		}
	}
	return err
}

func asAPIError(err error, target **APIError) bool {
	if e, ok := err.(*APIError); ok {
		*target = e
		return true
	}
	return false
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.baseURL + path

	var req *vahttp.Request
	switch method {
	case "GET":
		req = vahttp.Get(url)
	case "POST":
		req = vahttp.Post(url)
	case "PUT":
		req = vahttp.Put(url)
	case "DELETE":
		req = vahttp.Delete(url)
	default:
		return fmt.Errorf("client: unsupported method %q", method)
	}

	req = req.WithContext(ctx).Timeout(15 * time.Second)
	if access, _ := c.Tokens(); access != "" {
		req = req.Bearer(access)
	}
	if body != nil {
		req = req.Body(body)
	}

	resp, err := req.Send()
	if err != nil {
		return err
	}

	// The auth middleware mints a fresh access token when we arrived on a
	// refresh token alone; adopt it.
	if minted := resp.Header(newAccessHeader); minted != "" {
		_, refresh := c.Tokens()
		c.SetTokens(minted, refresh)
	}

	if !resp.OK() {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jerr := resp.JSON(apiErr); jerr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(resp.Text())
		}
		return apiErr
	}

	if out != nil {
		return resp.JSON(out)
	}
	return nil
}

// RefreshAccess exchanges the refresh token for a new access token.
func (c *Client) RefreshAccess(ctx context.Context) error {
	_, refresh := c.Tokens()
	if refresh == "" {
		return &APIError{Message: "Invalid refresh token", StatusCode: 401}
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	resp, err := vahttp.Post(c.baseURL+"/api/v1/auth/refresh").
		WithContext(ctx).
		Timeout(15 * time.Second).
		Header(refreshHeader, refresh).
		Send()
	if err != nil {
		return err
	}
	if !resp.OK() {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = resp.JSON(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = "Invalid refresh token"
		}
		return apiErr
	}
	if err := resp.JSON(&out); err != nil {
		return err
	}

	c.SetTokens(out.AccessToken, refresh)
	return nil
}
