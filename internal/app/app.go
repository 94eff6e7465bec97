package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	searchfeature "crepulse/features/search"
	"crepulse/features/stats"
	"crepulse/internal/config"
	"crepulse/internal/middleware"
	"crepulse/internal/search"
	"crepulse/internal/worker"
)

type App struct {
	Handler       http.Handler
	EmbedConsumer *worker.EmbedderConsumer
	port          int
}

func New(
	cfg *config.Config,
	embedder search.Embedder,
	index search.Index,
	vecStore worker.VectorStore,
	reranker search.Reranker,
	articleCounts stats.ArticleCounter,
	vectorCounts stats.VectorCounter,
) *App {

	// Feature: Search
	searchService := search.NewService(embedder, index, reranker)
	searchHandler := searchfeature.NewHandler(searchService)

	// Feature: Stats
	statsHandler := stats.NewHandler(articleCounts, vectorCounts)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("GET /search", middleware.CorrelationID(enableCORS(searchHandler.Search)))
	mux.Handle("GET /stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler:       mux,
		EmbedConsumer: worker.NewEmbedderConsumer(embedder, vecStore),
		port:          cfg.ServerPort,
	}
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
