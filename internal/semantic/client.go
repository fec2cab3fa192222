package semantic

import (
	"context"
)

// Generator produces free text; used only for report narratives, never for
// scoring.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder maps text to a vector; backs the matcher's semantic lexicon.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
