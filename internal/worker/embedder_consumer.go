package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nsqio/go-nsq"

	"crepulse/internal/article"
	"crepulse/internal/middleware"
)

type EmbedderConsumer struct {
	embedder Embedder
	store    VectorStore
}

func NewEmbedderConsumer(e Embedder, s VectorStore) *EmbedderConsumer {
	return &EmbedderConsumer{
		embedder: e,
		store:    s,
	}
}

func (h *EmbedderConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var payload ArticleEmbedPayload
	if err := json.Unmarshal(m.Body, &payload); err != nil {
		// Poison Pill: Invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	src, err := article.ParseSource(payload.Source)
	if err != nil {
		// Poison Pill: a retry can't fix an unknown source
		slog.Error("poison pill: unknown source", "source", payload.Source, "link", payload.Link)
		return nil
	}

	ctx := context.Background()
	if payload.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, payload.CorrelationID)
	}

	// Title and summary together carry the semantic gist; bodies are too
	// long and too boilerplate-heavy to embed whole.
	input := strings.TrimSpace(payload.Title + " " + payload.Summary)

	embedCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	vec, err := h.embedder.Embed(embedCtx, input)
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err, "source", payload.Source, "link", payload.Link)
		return err // Retry
	}

	a := article.Article{
		ID:         payload.ArticleID,
		Link:       payload.Link,
		Title:      payload.Title,
		Summary:    payload.Summary,
		Author:     payload.Author,
		Date:       payload.Date,
		Categories: payload.Categories,
		Source:     src,
	}

	if err := h.store.UpsertArticle(embedCtx, src, a, vec); err != nil {
		slog.ErrorContext(ctx, "vector upsert failed", "error", err, "source", payload.Source, "link", payload.Link)
		return err // Retry
	}

	slog.InfoContext(ctx, "article embedded", "source", payload.Source, "article_id", payload.ArticleID)
	return nil
}
