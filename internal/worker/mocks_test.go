package worker_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crepulse/internal/article"
)

// Mocks

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockVectorStore struct{ mock.Mock }

func (m *MockVectorStore) UpsertArticle(ctx context.Context, src article.Source, a article.Article, vec []float32) error {
	args := m.Called(ctx, src, a, vec)
	return args.Error(0)
}
