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


package solr

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultHost is the Solr host used when no base URL is configured.
	DefaultHost = "http://localhost:8983"

	// DefaultCollection is the collection used when none is configured.
	DefaultCollection = "solr"

	// DefaultTimeout bounds every single request to the indexing service.
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the indexing service client.
type Config struct {
	// BaseURL is the collection root, e.g. "http://localhost:8983/solr/portal".
	// The update, extract, commit and ping endpoints are resolved against it.
	BaseURL string

	// Timeout is the per-request timeout enforced by the transport.
	// Default: 15s
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the collection base URL directly, overriding host and collection.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithCollection builds the base URL from a Solr host and a collection name.
func WithCollection(host, collection string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = CollectionURL(host, collection)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// CollectionURL joins a Solr host and collection into "{host}/solr/{collection}".
// A blank host or collection falls back to the defaults.
func CollectionURL(host, collection string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultHost
	}
	collection = strings.Trim(strings.TrimSpace(collection), "/")
	if collection == "" {
		collection = DefaultCollection
	}
	return host + "/solr/" + collection
}

// DefaultConfig returns a Config pointing at a local Solr with the default collection.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: CollectionURL(DefaultHost, DefaultCollection),
		Timeout: DefaultTimeout,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithCollection("http://solr.internal:8983", "portal"),
//	    WithTimeout(30*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize trims whitespace and trailing slashes from the base URL.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%w: query and fragment are not allowed", ErrInvalidBaseURL)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
