// Package http is a small fluent client for outgoing requests.
//
//	resp, err := http.Get("https://api.example.com/rates").
//	    Query("base", "INR").
//	    Timeout(5 * time.Second).
//	    Retry(3, 500*time.Millisecond).
//	    Send()
//	if err == nil && resp.OK() {
//	    err = resp.JSON(&rates)
//	}
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"net/url"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// DefaultClient carries every request this package sends. Tests swap
// its Transport to intercept outgoing calls and restore it after.
var DefaultClient = &gohttp.Client{
	Transport: &gohttp.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Request accumulates one outgoing call before Send fires it.
type Request struct {
	method  string
	url     string
	query   url.Values
	headers gohttp.Header
	body    interface{}

	timeout  time.Duration
	attempts int
	backoff  time.Duration
	ctx      context.Context
}

func Get(url string) *Request    { return build(gohttp.MethodGet, url) }
func Post(url string) *Request   { return build(gohttp.MethodPost, url) }
func Put(url string) *Request    { return build(gohttp.MethodPut, url) }
func Delete(url string) *Request { return build(gohttp.MethodDelete, url) }

func build(method, rawURL string) *Request {
	return &Request{
		method: method,
		url:    rawURL,
		query:  url.Values{},
		headers: gohttp.Header{
			"Content-Type": {"application/json"},
			"Accept":       {"application/json"},
		},
		timeout:  30 * time.Second,
		attempts: 1,
		backoff:  500 * time.Millisecond,
		ctx:      context.Background(),
	}
}

// Header sets one request header.
func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// Bearer sets the Authorization header.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Query adds a URL query parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Body sets the request payload. Strings and byte slices go out raw;
// anything else is marshalled to JSON.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout bounds each individual attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry makes Send try up to n times, doubling wait between attempts.
// Only transport errors and 5xx responses are retried.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n > 0 {
		r.attempts = n
	}
	if wait > 0 {
		r.backoff = wait
	}
	return r
}

// WithContext attaches a context; cancellation aborts remaining attempts.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request, honouring the retry policy.
func (r *Request) Send() (*Response, error) {
	wait := r.backoff
	var lastErr error

	for attempt := 1; ; attempt++ {
		resp, err := r.once()
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if err == nil {
			lastErr = fmt.Errorf("http: %s %s returned %d", r.method, r.url, resp.StatusCode)
			if attempt >= r.attempts {
				return resp, nil // 5xx on the last attempt is still a response
			}
		} else {
			lastErr = err
			if attempt >= r.attempts {
				break
			}
		}

		logger.Warn("http: retrying request",
			"method", r.method, "url", r.url, "attempt", attempt, "error", lastErr)

		select {
		case <-r.ctx.Done():
			return nil, r.ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}

	return nil, fmt.Errorf("http: %s %s failed after %d attempts: %w", r.method, r.url, r.attempts, lastErr)
}

func (r *Request) once() (*Response, error) {
	target := r.url
	if len(r.query) > 0 {
		sep := "?"
		if u, err := url.Parse(r.url); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}

	payload, err := encodeBody(r.body)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, vs := range r.headers {
		req.Header[k] = vs
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %s %s: %w", r.method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

func encodeBody(v interface{}) (io.Reader, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case string:
		return bytes.NewBufferString(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(raw), nil
	}
}

// Response is the fully-read result of a request.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// JSON decodes the body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode response: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Raw) }

// Header reads one response header.
func (r *Response) Header(key string) string { return r.Headers.Get(key) }
