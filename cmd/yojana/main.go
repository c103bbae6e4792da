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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/yojana/ingestion"
	"github.com/poiesic/yojana/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "yojana",
		Usage: "Welfare scheme eligibility with cited, explainable determinations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"YOJANA_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a scheme manifest and replace the stored dataset",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to the YAML manifest",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per embedding request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Soft maximum chunk length in bytes",
						Value: ingestion.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding requests",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per embedding batch",
						Value: ingestion.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: ingestion.DefaultBaseDelay,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report embedding progress on stderr",
						Value: true,
					},
				),
			},
			{
				Name:   "query",
				Usage:  "Answer an eligibility question for a profile",
				Action: queryCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Natural-language question",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "field",
						Aliases: []string{"f"},
						Usage:   "Profile field as key=value, repeatable (e.g. -f age=22 -f state=Kerala)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Evidence chunks per scheme",
						Value: retrieval.DefaultEvidenceLimit,
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"YOJANA_ADDR"},
					},
					&cli.DurationFlag{
						Name:  "shutdown-timeout",
						Usage: "Grace period for in-flight requests on shutdown",
						Value: 10 * time.Second,
					},
				),
			},
			{
				Name:   "evaluate",
				Usage:  "Measure label accuracy against a gold file",
				Action: evaluateCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "gold",
						Aliases:  []string{"g"},
						Usage:    "Path to the YAML gold file",
						Required: true,
					},
				),
			},
			{
				Name:   "demo",
				Usage:  "Answer the built-in demo profiles",
				Action: demoCommand,
				Flags:  commonFlags(),
			},
		},
	}
}

// commonFlags are shared by every command that opens the database.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"YOJANA_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"YOJANA_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"YOJANA_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Embedding service API token",
			EnvVars: []string{"YOJANA_API_TOKEN", "OPENAI_API_KEY"},
		},
		&cli.DurationFlag{
			Name:  "query-cache-ttl",
			Usage: "How long question embeddings stay cached (0 disables)",
			Value: 10 * time.Minute,
		},
	}
}

func setupLogger(c *cli.Context) error {
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
