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


// Package solrblast posts local files to a Solr collection.
package solrblast

import (
	"context"
	"log/slog"

	"github.com/poiesic/solrblast/core"
	"github.com/poiesic/solrblast/pipeline"
	"github.com/poiesic/solrblast/solr"
	"github.com/poiesic/solrblast/solr/rest"
)

type Client struct {
	indexer solr.Indexer
	config  *solr.Config
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	config   *solr.Config
	restOpts []rest.Option
	logger   *slog.Logger
}

// WithConfig sets the indexing service configuration.
func WithConfig(cfg *solr.Config) ClientOption {
	return func(o *clientOptions) {
		o.config = cfg
	}
}

// WithRESTOptions passes options through to the REST client.
func WithRESTOptions(opts ...rest.Option) ClientOption {
	return func(o *clientOptions) {
		o.restOpts = append(o.restOpts, opts...)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

func NewClient(opts ...ClientOption) (*Client, error) {
	options := &clientOptions{
		config: solr.DefaultConfig(), // Default if not provided
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	restOpts := append([]rest.Option{rest.WithLogger(options.logger)}, options.restOpts...)
	indexer, err := rest.NewClient(options.config, restOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		indexer: indexer,
		config:  options.config,
		logger:  options.logger,
	}, nil
}

func (c *Client) Close() error {
	if err := c.indexer.Close(); err != nil {
		c.logger.Error("error closing indexer", "err", err)
		return err
	}
	return nil
}

func (c *Client) Indexer() solr.Indexer {
	return c.indexer
}

// BaseURL returns the collection URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Ping checks that the collection is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.indexer.Ping(ctx)
}

func (c *Client) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	opts = append([]pipeline.Option{pipeline.WithLogger(c.logger)}, opts...)
	return pipeline.New(c.indexer, opts...)
}

// Post runs a single pipeline over sources and releases it.
func (c *Client) Post(ctx context.Context, sources []string, opts ...pipeline.Option) (core.Report, error) {
	p, err := c.NewPipeline(opts...)
	if err != nil {
		return core.Report{}, err
	}
	defer p.Release()
	return p.Run(ctx, sources...)
}
