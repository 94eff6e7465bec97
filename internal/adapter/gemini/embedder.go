package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"crepulse/internal/text"
)

// maxEmbedTokens caps the text sent to the embedding API. Longer article
// bodies are truncated rather than rejected.
const maxEmbedTokens = 8000

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

func NewEmbedder(ctx context.Context, apiKey, model string, dimension int, opts ...option.ClientOption) (*Embedder, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Embedder{client: client, model: model, dimension: dimension}, nil
}

// Dimension reports the vector size this embedder is configured to produce.
func (e *Embedder) Dimension() int {
	return e.dimension
}

func (e *Embedder) Embed(ctx context.Context, input string) ([]float32, error) {
	input = text.TruncateTokens(input, maxEmbedTokens)

	slog.DebugContext(ctx, "embedding content", "model", e.model, "length", len(input))
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(input))
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err)
		return nil, err
	}
	if res.Embedding == nil {
		return nil, errors.New("empty embedding response")
	}

	vec := res.Embedding.Values
	if len(vec) != e.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), e.dimension)
	}
	return vec, nil
}

func (e *Embedder) Close() error {
	return e.client.Close()
}
