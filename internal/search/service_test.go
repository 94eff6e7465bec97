package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"crepulse/internal/article"
	"crepulse/internal/search"
)

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockIndex struct{ mock.Mock }

func (m *MockIndex) Query(ctx context.Context, src article.Source, vec []float32, limit int) ([]search.Result, error) {
	args := m.Called(ctx, src, vec, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}

func TestSimilar(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		svc := search.NewService(e, idx, nil)

		expected := []search.Result{{ArticleID: 1, Title: "Industrial demand holds", Certainty: 0.9}}

		e.On("Embed", ctx, "industrial leasing").Return([]float32{0.1, 0.2}, nil)
		idx.On("Query", ctx, article.SourceCREDaily, []float32{0.1, 0.2}, 5).Return(expected, nil)

		results, err := svc.Similar(ctx, "industrial leasing", article.SourceCREDaily, 5)
		assert.NoError(t, err)
		assert.Equal(t, expected, results)
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		svc := search.NewService(e, idx, nil)

		e.On("Embed", ctx, "q").Return([]float32{0.1}, nil)
		idx.On("Query", ctx, article.SourceMultihousing, []float32{0.1}, search.DefaultLimit).Return([]search.Result{}, nil)

		_, err := svc.Similar(ctx, "q", article.SourceMultihousing, 0)
		assert.NoError(t, err)
		idx.AssertExpectations(t)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		svc := search.NewService(new(MockEmbedder), new(MockIndex), nil)

		results, err := svc.Similar(ctx, "", article.SourceCREDaily, 5)
		assert.ErrorIs(t, err, search.ErrEmptyQuery)
		assert.Nil(t, results)
	})

	t.Run("EmbedError", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		svc := search.NewService(e, idx, nil)

		e.On("Embed", ctx, "q").Return(nil, errors.New("quota exceeded"))

		results, err := svc.Similar(ctx, "q", article.SourceCREDaily, 5)
		assert.Error(t, err)
		assert.Nil(t, results)
		idx.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

type MockReranker struct{ mock.Mock }

func (m *MockReranker) Rerank(ctx context.Context, query string, docs []string) ([]int, error) {
	args := m.Called(ctx, query, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func TestSimilar_Rerank(t *testing.T) {
	ctx := context.Background()

	hits := []search.Result{
		{ArticleID: 1, Title: "First", Summary: "a"},
		{ArticleID: 2, Title: "Second", Summary: "b"},
		{ArticleID: 3, Title: "Third", Summary: "c"},
	}

	t.Run("ReordersHits", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		rr := new(MockReranker)
		svc := search.NewService(e, idx, rr)

		e.On("Embed", ctx, "q").Return([]float32{0.1}, nil)
		idx.On("Query", ctx, article.SourceCREDaily, []float32{0.1}, 3).Return(hits, nil)
		rr.On("Rerank", ctx, "q", []string{"First a", "Second b", "Third c"}).Return([]int{2, 0}, nil)

		results, err := svc.Similar(ctx, "q", article.SourceCREDaily, 3)
		assert.NoError(t, err)
		// Reranked order first, dropped hit retained at the end.
		if assert.Len(t, results, 3) {
			assert.Equal(t, int64(3), results[0].ArticleID)
			assert.Equal(t, int64(1), results[1].ArticleID)
			assert.Equal(t, int64(2), results[2].ArticleID)
		}
	})

	t.Run("FailureKeepsIndexOrder", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		rr := new(MockReranker)
		svc := search.NewService(e, idx, rr)

		e.On("Embed", ctx, "q").Return([]float32{0.1}, nil)
		idx.On("Query", ctx, article.SourceCREDaily, []float32{0.1}, 3).Return(hits, nil)
		rr.On("Rerank", ctx, "q", mock.Anything).Return(nil, errors.New("api down"))

		results, err := svc.Similar(ctx, "q", article.SourceCREDaily, 3)
		assert.NoError(t, err)
		assert.Equal(t, hits, results)
	})

	t.Run("SingleHitSkipsRerank", func(t *testing.T) {
		e := new(MockEmbedder)
		idx := new(MockIndex)
		rr := new(MockReranker)
		svc := search.NewService(e, idx, rr)

		e.On("Embed", ctx, "q").Return([]float32{0.1}, nil)
		idx.On("Query", ctx, article.SourceCREDaily, []float32{0.1}, 1).Return(hits[:1], nil)

		_, err := svc.Similar(ctx, "q", article.SourceCREDaily, 1)
		assert.NoError(t, err)
		rr.AssertNotCalled(t, "Rerank", mock.Anything, mock.Anything, mock.Anything)
	})
}
