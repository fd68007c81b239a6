// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network provides the HTTP client used to fetch remote catalogs.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnexpectedStatus is returned when the server answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// maxBodyBytes caps how much of a catalog response is decoded.
const maxBodyBytes = 32 << 20

// HTTPClient fetches JSON documents over HTTP(S).
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new HTTP client with timeout. A zero timeout disables it.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
	}
}

// Timeout returns the configured overall request timeout.
func (c *HTTPClient) Timeout() time.Duration {
	return c.client.Timeout
}

// GetJSON issues a single GET for url and decodes the body into v.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}

	return nil
}
