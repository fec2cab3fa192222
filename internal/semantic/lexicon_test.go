package semantic

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscribe/concord/internal/core/model"
)

// stubEmbedder returns canned vectors and records how often it was called.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no embedding for %q", text)
	}
	return v, nil
}

func TestBuildLexicon_EmbedsEachLabelOnce(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"rent":    {1, 0},
		"deposit": {0, 1},
	}}

	lex, err := BuildLexicon(context.Background(), emb, []string{"rent", "deposit", "rent", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, emb.calls)

	assert.InDelta(t, 1.0, lex.Similarity("rent", "rent"), 1e-9)
	assert.InDelta(t, 0.0, lex.Similarity("rent", "deposit"), 1e-9)
}

func TestBuildLexicon_SkipsFailedLabels(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"rent": {1, 0}}}

	lex, err := BuildLexicon(context.Background(), emb, []string{"rent", "unknown"})
	require.NoError(t, err)

	// The failed label scores zero instead of failing the comparison.
	assert.Equal(t, 0.0, lex.Similarity("unknown", "rent"))
}

func TestBuildLexicon_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildLexicon(ctx, &stubEmbedder{}, []string{"rent"})
	assert.Error(t, err)
}

func TestBuildLexicon_NilEmbedder(t *testing.T) {
	_, err := BuildLexicon(context.Background(), nil, []string{"rent"})
	assert.Error(t, err)
}

func TestSimilarity_ClampsNegativeCosine(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"up":   {0, 1},
		"down": {0, -1},
	}}
	lex, err := BuildLexicon(context.Background(), emb, []string{"up", "down"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, lex.Similarity("up", "down"))
}

func TestGraphLabels_Distinct(t *testing.T) {
	a := model.NewGraph(model.KindEContract)
	require.NoError(t, a.AddNode(model.Node{ID: "n1", Type: model.NodeParty, Label: "Tenant"}))
	require.NoError(t, a.AddNode(model.Node{ID: "n2", Type: model.NodeParty, Label: "Landlord"}))
	a.Seal()

	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{ID: "m1", Type: model.NodeVariable, Label: "Tenant"}))
	b.Seal()

	labels := GraphLabels(a, b)
	assert.ElementsMatch(t, []string{"Tenant", "Landlord"}, labels)
}
