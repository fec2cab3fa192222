package semantic

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/chainscribe/concord/internal/core/model"
)

// Lexicon is a prepared semantic-similarity table over a fixed label
// vocabulary. All embedding I/O happens in BuildLexicon, strictly before
// matching starts, so Similarity is a pure in-memory lookup and the
// matching loop never blocks on the network.
type Lexicon struct {
	vectors map[string][]float32
}

// BuildLexicon embeds every label once. Labels the embedder fails on are
// skipped rather than fatal: the matcher falls back to lexical scoring for
// them.
func BuildLexicon(ctx context.Context, embedder Embedder, labels []string) (*Lexicon, error) {
	if embedder == nil {
		return nil, errors.New("build lexicon: nil embedder")
	}
	lex := &Lexicon{vectors: make(map[string][]float32, len(labels))}
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, done := lex.vectors[label]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "cancelled while building lexicon")
		}
		vec, err := embedder.Embed(ctx, label)
		if err != nil || len(vec) == 0 {
			continue
		}
		lex.vectors[label] = vec
	}
	return lex, nil
}

// Similarity returns the cosine similarity of two labels' embeddings,
// clamped to [0,1]. Unknown labels score 0, which defers to the lexical
// component.
func (l *Lexicon) Similarity(a, b string) float64 {
	va, ok := l.vectors[a]
	if !ok {
		return 0
	}
	vb, ok := l.vectors[b]
	if !ok {
		return 0
	}
	sim := cosine(va, vb)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// GraphLabels collects the distinct node labels of the given graphs, the
// vocabulary a lexicon must cover before a comparison.
func GraphLabels(graphs ...*model.Graph) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range graphs {
		for _, n := range g.Nodes() {
			if n.Label != "" && !seen[n.Label] {
				seen[n.Label] = true
				out = append(out, n.Label)
			}
		}
	}
	return out
}
