package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"crepulse/internal/article"
	"crepulse/internal/middleware"
)

type ArticleCounter interface {
	Count(ctx context.Context, src article.Source) (int, error)
}

type VectorCounter interface {
	Count(ctx context.Context, src article.Source) (int, error)
}

type Handler struct {
	articles ArticleCounter
	vectors  VectorCounter
}

func NewHandler(articles ArticleCounter, vectors VectorCounter) *Handler {
	return &Handler{articles: articles, vectors: vectors}
}

type SourceStats struct {
	Articles int `json:"articles"`
	Embedded int `json:"embedded"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationID := middleware.GetCorrelationID(ctx)

	slog.InfoContext(ctx, "getting stats", "correlationId", correlationID)

	resp := make(map[string]SourceStats, len(article.Sources()))
	for _, src := range article.Sources() {
		aCount, err := h.articles.Count(ctx, src)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count articles", "source", src, "error", err, "correlationId", correlationID)
			h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count articles", http.StatusInternalServerError)
			return
		}

		vCount, err := h.vectors.Count(ctx, src)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count vectors", "source", src, "error", err, "correlationId", correlationID)
			h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count vectors", http.StatusInternalServerError)
			return
		}

		resp[string(src)] = SourceStats{Articles: aCount, Embedded: vCount}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": resp}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
