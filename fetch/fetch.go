// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fetch retrieves a URL's body over HTTP with retry-with-backoff
// semantics and hands the bytes to the parser. It is the mundane
// precondition for feeding real web pages to Parse -- not a rendering or
// resource-loading engine.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/justhtml/html5"
)

// Client wraps a retryablehttp.Client configured for fetching HTML
// documents: bounded retries with exponential backoff, and a default
// User-Agent identifying this module.
type Client struct {
	rc *retryablehttp.Client
}

// NewClient returns a Client with sensible defaults: up to 3 retries,
// a 30s per-request timeout, and logging disabled. The wrapped
// retryablehttp client is unexported, so its logger cannot be changed.
func NewClient() *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil
	return &Client{rc: rc}
}

// Get retrieves url and returns its body as bytes. Non-2xx responses are
// returned as an error naming the status code.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "justhtml5-fetch/1.0")

	resp, err := c.rc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading body of %s: %w", url, err)
	}
	return body, nil
}

// ParseURL fetches url and parses the response body as an HTML document.
func (c *Client) ParseURL(ctx context.Context, url string, opts html.Options) (*html.Node, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return html.ParseBytes(body, opts)
}
