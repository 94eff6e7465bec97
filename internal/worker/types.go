package worker

import (
	"context"

	"crepulse/internal/article"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	UpsertArticle(ctx context.Context, src article.Source, a article.Article, vec []float32) error
}
