package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"crepulse/internal/article"
	"crepulse/internal/middleware"
	"crepulse/internal/search"
)

type Searcher interface {
	Similar(ctx context.Context, query string, src article.Source, limit int) ([]search.Result, error)
}

type Handler struct {
	searcher Searcher
}

func NewHandler(s Searcher) *Handler {
	return &Handler{searcher: s}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationID := middleware.GetCorrelationID(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(ctx, w, "INVALID_REQUEST", "missing query parameter 'q'", http.StatusBadRequest)
		return
	}

	src, err := article.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		h.writeError(ctx, w, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(ctx, w, "INVALID_REQUEST", "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	slog.InfoContext(ctx, "search request", "query", query, "source", src, "limit", limit, "correlationId", correlationID)

	results, err := h.searcher.Similar(ctx, query, src, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			h.writeError(ctx, w, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
			return
		}
		slog.ErrorContext(ctx, "search failed", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "search failed", http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []search.Result{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": results}); err != nil {
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
