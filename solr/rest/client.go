// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/poiesic/solrblast/solr"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements solr.Indexer over HTTP.
type Client struct {
	config *solr.Config
	doer   Doer
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the HTTP transport. The Doer must be safe for concurrent use.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "solr-client")
		}
	}
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *solr.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = solr.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		doer:   &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "solr-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClient creates an indexing service client for the configured collection.
// The config is validated and normalized before use.
//
// Returns solr.Indexer interface to enforce abstraction.
func NewClient(config *solr.Config, opts ...Option) (solr.Indexer, error) {
	return newClient(config, opts...)
}

// Extract posts doc to {base}/update/extract.
func (c *Client) Extract(ctx context.Context, doc solr.Document) error {
	query := "resource.name=" + url.QueryEscape(doc.ResourceName) +
		"&literal.id=" + url.QueryEscape(doc.ID)
	endpoint := c.config.BaseURL + "/update/extract?" + query

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(doc.Body))
	if err != nil {
		return &solr.TransportError{Op: "extract", Err: err}
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("extracting document", "id", doc.ID, "bytes", len(doc.Body), "content_type", contentType)
	return c.do(req, "extract")
}

// Commit issues GET {base}/update?commit=true.
func (c *Client) Commit(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/update?commit=true", nil)
	if err != nil {
		return &solr.TransportError{Op: "commit", Err: err}
	}
	c.logger.Debug("committing")
	return c.do(req, "commit")
}

// Ping issues GET {base}/admin/ping.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/admin/ping", nil)
	if err != nil {
		return &solr.TransportError{Op: "ping", Err: err}
	}
	return c.do(req, "ping")
}

// Close is a no-op; idle connections belong to the shared transport.
func (c *Client) Close() error {
	c.logger.Debug("closing solr client")
	return nil
}

func (c *Client) do(req *http.Request, op string) error {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return &solr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if solr.IsSuccess(resp.StatusCode) {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &solr.StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
