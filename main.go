package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"

	"crepulse/features/credaily"
	"crepulse/features/multifamilydive"
	"crepulse/features/multihousing"
	"crepulse/features/store"
	"crepulse/internal/adapter/gemini"
	"crepulse/internal/adapter/reranker"
	wstore "crepulse/internal/adapter/weaviate"
	"crepulse/internal/app"
	"crepulse/internal/article"
	"crepulse/internal/config"
	"crepulse/internal/embedding"
	"crepulse/internal/export"
	"crepulse/internal/logger"
	"crepulse/internal/pipeline"
	"crepulse/internal/search"
)

func extractors() []article.Extractor {
	return []article.Extractor{
		credaily.NewExtractor(),
		multifamilydive.NewExtractor(),
		multihousing.NewExtractor(),
	}
}

func main() {
	// Initialize structured logger
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export-only mode: no database, no queue, no server.
	if !cfg.SaveToDB {
		runExport(ctx, cfg)
		return
	}

	// 2. Infrastructure
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()
	defer deps.NSQProducer.Stop()

	// 3. Adapters
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	defer embedder.Close()

	vecStore := wstore.NewStore(deps.Weaviate)
	repo := store.NewPostgresRepo(deps.DB)

	for _, src := range article.Sources() {
		if err := repo.EnsureSchema(ctx, src); err != nil {
			slog.Error("failed to ensure table", "source", src, "error", err)
			os.Exit(1)
		}
	}

	// 4. Crawl each source in the background, then backfill the vector
	// index for anything the queue missed.
	runner := pipeline.NewRunner(pipeline.NewHTTPFetcher(), repo, deps.NSQProducer, cfg.FetchConcurrency)
	backfill := embedding.NewService(repo, embedder, vecStore)
	go func() {
		for _, ext := range extractors() {
			result, err := runner.Run(ctx, ext, cfg.PageLimit)
			if err != nil {
				slog.Error("crawl aborted", "source", ext.Source(), "error", err)
				return
			}
			slog.Info("crawl result", "source", ext.Source(),
				"attempted", result.Attempted, "succeeded", result.Succeeded, "failed", len(result.Failures))
		}

		for _, src := range article.Sources() {
			if _, err := backfill.ProcessSource(ctx, src, cfg.EmbedLimit, cfg.BatchSize); err != nil {
				slog.Error("embedding backfill failed", "source", src, "error", err)
			}
		}
	}()

	// 5. HTTP app + embed worker
	var rr search.Reranker
	if client := reranker.NewClient(cfg.RerankProvider, cfg.RerankAPIKey); client.Enabled() {
		rr = client
	}
	a := app.New(cfg, embedder, vecStore, vecStore, rr, repo, vecStore)

	if cfg.EnableEmbedWorker {
		nsqCfg := nsq.NewConfig()
		consumer, err := nsq.NewConsumer(config.TopicArticleEmbed, config.ChannelEmbedWorker, nsqCfg)
		if err != nil {
			slog.Error("failed to create NSQ consumer", "error", err)
		} else {
			consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
				return a.EmbedConsumer.HandleMessage(m)
			}))
			if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
				slog.Error("failed to connect to NSQLookupd", "error", err)
			} else {
				slog.Info("embed consumer connected")
				defer consumer.Stop()
			}
		}
	}

	// 6. HTTP server (search + health)
	if err := a.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// runExport crawls every source and writes the records to local files.
func runExport(ctx context.Context, cfg *config.Config) {
	runner := pipeline.NewRunner(pipeline.NewHTTPFetcher(), nil, nil, cfg.FetchConcurrency)

	for _, ext := range extractors() {
		records, err := runner.Collect(ctx, ext, cfg.PageLimit)
		if err != nil {
			slog.Error("crawl aborted", "source", ext.Source(), "error", err)
			return
		}
		if len(records) == 0 {
			slog.Info("nothing to export", "source", ext.Source())
			continue
		}

		paths, err := export.SaveAll(cfg.ExportDir, ext.Source(), records)
		if err != nil {
			slog.Error("export failed", "source", ext.Source(), "error", err)
			continue
		}
		slog.Info("exported", "source", ext.Source(), "records", len(records), "files", paths)
	}
}
