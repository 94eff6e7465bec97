package embedding

import (
	"context"
	"log/slog"
	"strings"

	"crepulse/internal/article"
)

// ArticleReader pages through persisted articles in stable id order.
type ArticleReader interface {
	FetchPage(ctx context.Context, src article.Source, limit, offset int) ([]article.Article, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	UpsertArticle(ctx context.Context, src article.Source, a article.Article, vec []float32) error
}

// Service backfills the vector index from rows already in Postgres. It is
// the batch counterpart to the NSQ embed worker: the worker covers new
// ingests, this covers history and re-indexing after a schema change.
type Service struct {
	reader   ArticleReader
	embedder Embedder
	store    VectorStore
}

func NewService(reader ArticleReader, embedder Embedder, store VectorStore) *Service {
	return &Service{reader: reader, embedder: embedder, store: store}
}

// ProcessSource embeds up to limit articles from one source, batchSize rows
// per query. A failed article is logged and skipped; the batch keeps going.
// Returns the number of articles successfully indexed.
func (s *Service) ProcessSource(ctx context.Context, src article.Source, limit, batchSize int) (int, error) {
	processed := 0

	for offset := 0; offset < limit; offset += batchSize {
		size := batchSize
		if remaining := limit - offset; remaining < size {
			size = remaining
		}

		batch, err := s.reader.FetchPage(ctx, src, size, offset)
		if err != nil {
			return processed, err
		}
		if len(batch) == 0 {
			break
		}

		for _, a := range batch {
			if err := ctx.Err(); err != nil {
				return processed, err
			}

			input := strings.TrimSpace(a.Title + " " + a.Summary)
			vec, err := s.embedder.Embed(ctx, input)
			if err != nil {
				slog.WarnContext(ctx, "embed failed, skipping article", "source", src, "article_id", a.ID, "error", err)
				continue
			}

			if err := s.store.UpsertArticle(ctx, src, a, vec); err != nil {
				slog.WarnContext(ctx, "vector upsert failed, skipping article", "source", src, "article_id", a.ID, "error", err)
				continue
			}
			processed++
		}

		if len(batch) < size {
			break
		}
	}

	slog.InfoContext(ctx, "embedding backfill complete", "source", src, "processed", processed)
	return processed, nil
}
