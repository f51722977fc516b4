package utils

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingClientInterface turns text into a catalog-compatible vector.
type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// PlanGeneratorInterface produces the raw JSON draft itinerary.
type PlanGeneratorInterface interface {
	GeneratePlanJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EmbeddingDimensions is the width of the poi_embeddings vector column.
// Providers with narrower native embeddings are zero-padded to match.
const EmbeddingDimensions = 1536

func fitDimensions(raw []float32) []float32 {
	if len(raw) == EmbeddingDimensions {
		return raw
	}
	out := make([]float32, EmbeddingDimensions)
	copy(out, raw)
	return out
}
