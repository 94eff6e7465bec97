package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"crepulse/internal/article"
)

const DefaultLimit = 10

var ErrEmptyQuery = errors.New("empty query")

// Result is one search hit with the metadata stored alongside the vector.
type Result struct {
	ArticleID  int64    `json:"article_id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Link       string   `json:"link"`
	Author     string   `json:"author,omitempty"`
	Date       string   `json:"date,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Source     string   `json:"source"`
	Certainty  float32  `json:"certainty"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Index interface {
	Query(ctx context.Context, src article.Source, vec []float32, limit int) ([]Result, error)
}

type Reranker interface {
	Rerank(ctx context.Context, query string, docs []string) ([]int, error)
}

type Service struct {
	embedder Embedder
	index    Index
	reranker Reranker
}

// NewService wires a search path. reranker may be nil, in which case hits
// keep the index's certainty order.
func NewService(embedder Embedder, index Index, reranker Reranker) *Service {
	return &Service{embedder: embedder, index: index, reranker: reranker}
}

// Similar embeds the query and returns the nearest articles from one
// source's index.
func (s *Service) Similar(ctx context.Context, query string, src article.Source, limit int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "query embedding failed", "error", err)
		return nil, err
	}

	results, err := s.index.Query(ctx, src, vec, limit)
	if err != nil {
		return nil, err
	}

	return s.rerank(ctx, query, results), nil
}

// rerank reorders hits by external relevance score. A rerank failure falls
// back to the original order rather than failing the search.
func (s *Service) rerank(ctx context.Context, query string, results []Result) []Result {
	if s.reranker == nil || len(results) < 2 {
		return results
	}

	docs := make([]string, len(results))
	for i, r := range results {
		docs[i] = strings.TrimSpace(r.Title + " " + r.Summary)
	}

	indices, err := s.reranker.Rerank(ctx, query, docs)
	if err != nil {
		slog.WarnContext(ctx, "rerank failed, keeping index order", "error", err)
		return results
	}

	reordered := make([]Result, 0, len(results))
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(results) && !seen[idx] {
			reordered = append(reordered, results[idx])
			seen[idx] = true
		}
	}
	// Anything the provider dropped keeps its original relative position.
	for i, r := range results {
		if !seen[i] {
			reordered = append(reordered, r)
		}
	}
	return reordered
}
