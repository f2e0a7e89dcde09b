// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package fetch retrieves the leading bytes of a URL's body. It is the
// producer memocall puts behind a memo.Cache.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/staranto/memocall/internal/memo"
)

// DefaultFirstN is the number of body bytes kept when none is requested.
const DefaultFirstN = 100

var (
	ErrStatus      = errors.New("unexpected response status")
	ErrBadArgument = errors.New("bad fetch argument")
)

// Fetcher performs GET requests with a pooled client.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.Client.Timeout = d
	}
}

// WithClient replaces the pooled client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.Client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.UserAgent = ua
	}
}

// New returns a Fetcher backed by a cleanhttp pooled client.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		Client:    cleanhttp.DefaultPooledClient(),
		UserAgent: "memocall",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs url and returns at most firstN bytes of the body. A firstN of
// zero returns the whole body. Non-2xx responses are errors wrapping
// ErrStatus.
func (f *Fetcher) Fetch(ctx context.Context, url string, firstN int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrBadArgument)
	}
	if firstN < 0 {
		return nil, fmt.Errorf("%w: first_n must not be negative, got %d", ErrBadArgument, firstN)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	log.Debugf("GET %s (first_n=%d)", url, firstN)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrStatus, url, resp.Status)
	}

	var body io.Reader = resp.Body
	if firstN > 0 {
		body = io.LimitReader(resp.Body, int64(firstN))
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return doc.Bytes(), nil
}

// Producer adapts Fetch to memo.Args. The URL is positional argument 0.
// first_n is taken from the named argument "first_n", then positional
// argument 1, then DefaultFirstN.
func (f *Fetcher) Producer() memo.Producer[[]byte] {
	return func(ctx context.Context, args memo.Args) ([]byte, error) {
		url, firstN, err := ParseArgs(args)
		if err != nil {
			return nil, err
		}
		return f.Fetch(ctx, url, firstN)
	}
}

// Args builds the memo.Args Producer expects.
func Args(url string, firstN int) memo.Args {
	return memo.Positional(url).With("first_n", firstN)
}

// ParseArgs extracts the URL and first_n from args.
func ParseArgs(args memo.Args) (string, int, error) {
	if len(args.Positional) == 0 {
		return "", 0, fmt.Errorf("%w: missing url", ErrBadArgument)
	}
	url, ok := args.Positional[0].(string)
	if !ok {
		return "", 0, fmt.Errorf("%w: url is %T, want string", ErrBadArgument, args.Positional[0])
	}

	raw, named := args.Named["first_n"]
	if !named && len(args.Positional) > 1 {
		raw = args.Positional[1]
	}
	if raw == nil {
		return url, DefaultFirstN, nil
	}

	switch n := raw.(type) {
	case int:
		return url, n, nil
	case int64:
		return url, int(n), nil
	default:
		return "", 0, fmt.Errorf("%w: first_n is %T, want int", ErrBadArgument, raw)
	}
}
