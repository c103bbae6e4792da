package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/yojana"
	"github.com/poiesic/yojana/ai"
	"github.com/poiesic/yojana/api"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/evaluation"
	"github.com/poiesic/yojana/ingestion"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func openDatabase(c *cli.Context) (*yojana.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIToken(c.String("api-token")),
		ai.WithQueryCacheTTL(c.Duration("query-cache-ttl")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := yojana.NewDatabase(c.String("db"), yojana.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	m, err := ingestion.LoadManifest(c.String("manifest"))
	if err != nil {
		return err
	}
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithPoolSize(c.Int("workers")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if c.Bool("progress") {
		opts = append(opts, ingestion.WithProgress(os.Stderr))
	}

	info, err := db.Ingest(c.Context, m, opts...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Ingested dataset %s (generation %d): %d nodes, %d edges, %d chunks\n",
		info.Version, info.Generation, info.Nodes, info.Edges, info.Chunks)
	return nil
}

func queryCommand(c *cli.Context) error {
	profile, err := parseProfile(c.StringSlice("field"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.AnswerTopK(c.Context, profile, c.String("question"), c.Int("top-k"))
	if err != nil {
		return err
	}
	renderResults(c.App.Writer, results)
	return nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if !slog.Default().Enabled(c.Context, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:    c.String("addr"),
		Handler: api.NewRouter(db, slog.Default()),
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func evaluateCommand(c *cli.Context) error {
	gold, err := evaluation.LoadGold(c.String("gold"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := evaluation.Run(c.Context, db, gold)
	if err != nil {
		return err
	}
	renderReport(c.App.Writer, report)
	return nil
}

func demoCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, p := range evaluation.DemoProfiles() {
		fmt.Fprintf(c.App.Writer, "== %s: %s\n", p.ID, p.Question)
		results, err := db.Answer(c.Context, p.Profile, p.Question)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.ID, err)
		}
		renderResults(c.App.Writer, results)
	}
	return nil
}

// parseProfile turns key=value pairs into a profile. Values are read as YAML
// scalars, so numbers and booleans keep their types.
func parseProfile(fields []string) (core.UserProfile, error) {
	profile := make(core.UserProfile, len(fields))
	for _, f := range fields {
		key, raw, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid profile field %q: want key=value", f)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		profile[key] = value
	}
	return profile, nil
}
