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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/solrblast"
	"github.com/poiesic/solrblast/core"
	"github.com/poiesic/solrblast/metrics"
	"github.com/poiesic/solrblast/pipeline"
	"github.com/poiesic/solrblast/progress"
	"github.com/poiesic/solrblast/solr"
	"github.com/urfave/cli/v2"
)

const userAgent = "solrblast"

func main() {
	_ = godotenv.Load() // ignore error if .env missing

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "solrblast",
		Usage: "Post local files to a Solr collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SOLRBLAST_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "post",
				Usage:     "Index files, globs or directories, then commit",
				ArgsUsage: "<files|globs|directories>...",
				Action:    postCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:    "filetypes",
						Aliases: []string{"f"},
						Usage:   "Comma separated extensions to include when expanding globs and directories",
						Value:   core.DefaultFiletypes,
					},
					&cli.IntFlag{
						Name:    "concurrency",
						Usage:   "Maximum number of uploads in flight",
						Value:   core.DefaultConcurrency,
						EnvVars: []string{"SOLRBLAST_CONCURRENCY"},
					},
					&cli.IntFlag{
						Name:  "filter-workers",
						Usage: "Number of exclusion filter workers (0 means one per CPU)",
					},
					&cli.BoolFlag{
						Name:    "ci",
						Usage:   "Reduce progress output for non-interactive logs",
						EnvVars: []string{"CI"},
					},
					&cli.DurationFlag{
						Name:  "progress-interval",
						Usage: "Minimum time between progress lines in CI mode",
						Value: progress.DefaultInterval,
					},
					&cli.StringFlag{
						Name:  "metrics-file",
						Usage: "Write run metrics in Prometheus text format to this file",
					},
				),
			},
			{
				Name:   "ping",
				Usage:  "Check that the collection is reachable",
				Action: pingCommand,
				Flags:  connectionFlags(),
			},
		},
	}
}

func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Usage:   "Collection URL, overrides --host and --collection",
			EnvVars: []string{"SOLR_URL"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Solr host URL",
			Value:   solr.DefaultHost,
			EnvVars: []string{"SOLR_HOST"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Aliases: []string{"c"},
			Usage:   "Collection name",
			Value:   solr.DefaultCollection,
			EnvVars: []string{"DEFAULT_SOLR_COLLECTION"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout",
			Value: solr.DefaultTimeout,
		},
	}
}

// solrConfig builds the client configuration from connection flags.
func solrConfig(c *cli.Context) *solr.Config {
	opts := []solr.ConfigOption{
		solr.WithTimeout(c.Duration("timeout")),
		solr.WithUserAgent(userAgent),
	}
	if u := c.String("url"); u != "" {
		opts = append(opts, solr.WithBaseURL(u))
	} else {
		opts = append(opts, solr.WithCollection(c.String("host"), c.String("collection")))
	}
	return solr.NewConfig(opts...)
}

func postCommand(c *cli.Context) error {
	sources := c.Args().Slice()
	if len(sources) == 0 {
		return fmt.Errorf("at least one file, glob or directory is required")
	}

	filetypes, err := core.ParseFiletypes(c.String("filetypes"))
	if err != nil {
		return err
	}

	client, err := solrblast.NewClient(solrblast.WithConfig(solrConfig(c)))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	policy := progress.EveryOutcome()
	if c.Bool("ci") {
		policy = progress.Throttled(c.Duration("progress-interval"))
	}

	opts := []pipeline.Option{
		pipeline.WithConcurrency(c.Int("concurrency")),
		pipeline.WithFiletypes(filetypes),
		pipeline.WithPoolSize(c.Int("filter-workers")),
		pipeline.WithProgress(c.App.ErrWriter, policy),
	}
	var recorder *metrics.Recorder
	if c.String("metrics-file") != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, pipeline.WithMonitor(recorder))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("posting", "url", client.BaseURL(), "sources", len(sources), "concurrency", c.Int("concurrency"))
	report, runErr := client.Post(ctx, sources, opts...)

	if recorder != nil {
		if err := recorder.WriteTextfile(c.String("metrics-file")); err != nil {
			slog.Error("failed to write metrics", "err", err)
		}
	}

	var patternErr *core.PatternError
	if errors.As(runErr, &patternErr) {
		return runErr
	}

	fmt.Fprintf(c.App.ErrWriter, "done: indexed=%d failed=%d excluded=%d in %s\n",
		report.Indexed, report.Failed, report.Excluded, report.Duration().Round(time.Millisecond))

	if runErr != nil {
		return fmt.Errorf("post failed: %w", runErr)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", context.Cause(ctx))
	}
	return nil
}

func pingCommand(c *cli.Context) error {
	client, err := solrblast.NewClient(solrblast.WithConfig(solrConfig(c)))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if err := client.Ping(c.Context); err != nil {
		return fmt.Errorf("ping %s: %w", client.BaseURL(), err)
	}
	fmt.Fprintf(c.App.Writer, "ok: %s\n", client.BaseURL())
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
