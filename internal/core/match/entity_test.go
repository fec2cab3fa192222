package match

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscribe/concord/internal/core/model"
)

func leaseGraphs(t *testing.T) (*model.Graph, *model.Graph) {
	t.Helper()

	a := model.NewGraph(model.KindEContract)
	require.NoError(t, a.AddNode(model.Node{ID: "a-tenant", Type: model.NodeParty, Label: "Tenant"}))
	require.NoError(t, a.AddNode(model.Node{ID: "a-landlord", Type: model.NodeParty, Label: "Landlord"}))
	require.NoError(t, a.AddNode(model.Node{ID: "a-rent", Type: model.NodeFinancialAmount, Label: "$1500/month"}))
	require.NoError(t, a.AddEdge(model.Edge{
		ID: "a-oa", Type: model.EdgeObligationAssignment,
		SourceID: "a-tenant", TargetID: "a-rent", Confidence: 0.9,
	}))
	a.Seal()

	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{ID: "b-fn", Type: model.NodeFunction, Label: "payRent"}))
	require.NoError(t, b.AddNode(model.Node{ID: "b-ev", Type: model.NodeEvent, Label: "RentPaid"}))
	require.NoError(t, b.AddNode(model.Node{ID: "b-tenant", Type: model.NodeVariable, Label: "tenant"}))
	require.NoError(t, b.AddNode(model.Node{
		ID: "b-rent", Type: model.NodeVariable, Label: "monthlyRent",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	require.NoError(t, b.AddNode(model.Node{ID: "b-mod", Type: model.NodeModifier, Label: "onlyTenant"}))
	require.NoError(t, b.AddEdge(model.Edge{
		ID: "b-emit", Type: model.EdgeEmits, SourceID: "b-fn", TargetID: "b-ev", Confidence: 0.95,
	}))
	require.NoError(t, b.AddEdge(model.Edge{
		ID: "b-write", Type: model.EdgeModifies, SourceID: "b-fn", TargetID: "b-rent", Confidence: 0.9,
	}))
	require.NoError(t, b.AddEdge(model.Edge{
		ID: "b-guard", Type: model.EdgeCalls, SourceID: "b-mod", TargetID: "b-fn", Confidence: 0.9,
	}))
	b.Seal()

	return a, b
}

func TestEntityMatch_AcrossGranularity(t *testing.T) {
	a, b := leaseGraphs(t)
	m := NewEntityMatcher(0.55, nil)

	ms, err := m.Match(a, b)
	require.NoError(t, err)

	// Tenant matches the identically named variable on the exact-label floor.
	assert.True(t, ms.Corresponds("a-tenant", "b-tenant"))
	var tenant model.Match
	for _, mt := range ms.Matches {
		if mt.LeftNodeID == "a-tenant" && mt.RightNodeID == "b-tenant" {
			tenant = mt
		}
	}
	assert.Equal(t, model.BasisExactLabel, tenant.Basis)
	assert.GreaterOrEqual(t, tenant.Similarity, 0.95)

	// "$1500/month" reaches "monthlyRent" through the numeric type hint plus
	// the shared "month" root.
	assert.True(t, ms.Corresponds("a-rent", "b-rent"))

	// Nothing in B names the landlord.
	assert.False(t, ms.HasLeft("a-landlord"))

	// Left side is always graph A, no matter which graph was iterated.
	for _, mt := range ms.Matches {
		assert.NotNil(t, a.Node(mt.LeftNodeID), "left node %s must be in A", mt.LeftNodeID)
		assert.NotNil(t, b.Node(mt.RightNodeID), "right node %s must be in B", mt.RightNodeID)
	}
}

func TestEntityMatch_RejectsIncompatibleTypes(t *testing.T) {
	a := model.NewGraph(model.KindEContract)
	require.NoError(t, a.AddNode(model.Node{ID: "p", Type: model.NodeParty, Label: "transfer"}))
	a.Seal()

	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{ID: "f", Type: model.NodeFunction, Label: "transfer"}))
	b.Seal()

	// Same label, but PARTY never realizes as FUNCTION.
	ms, err := NewEntityMatcher(0.55, nil).Match(a, b)
	require.NoError(t, err)
	assert.Empty(t, ms.Matches)
}

func TestEntityMatch_ManyToOne(t *testing.T) {
	// One coarse amount against two fine variables that both carry it.
	a := model.NewGraph(model.KindEContract)
	require.NoError(t, a.AddNode(model.Node{ID: "amt", Type: model.NodeFinancialAmount, Label: "rent amount"}))
	a.Seal()

	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{
		ID: "v1", Type: model.NodeVariable, Label: "rentAmount",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	require.NoError(t, b.AddNode(model.Node{
		ID: "v2", Type: model.NodeVariable, Label: "rentAmountWei",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	b.Seal()

	ms, err := NewEntityMatcher(0.55, nil).Match(a, b)
	require.NoError(t, err)
	assert.True(t, ms.Corresponds("amt", "v1"))
	assert.True(t, ms.Corresponds("amt", "v2"))
	assert.Len(t, ms.Matches, 2)

	// Best candidate first: the exact normalized label outranks the suffixed
	// one.
	assert.Equal(t, "v1", ms.Matches[0].RightNodeID)
}

func TestEntityMatch_Deterministic(t *testing.T) {
	a, b := leaseGraphs(t)
	m := NewEntityMatcher(0.55, nil)

	first, err := m.Match(a, b)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.Match(a, b)
		require.NoError(t, err)
		assert.Equal(t, first.Matches, again.Matches)
	}
}

func TestEntityMatch_RequiresSealedGraphs(t *testing.T) {
	a := model.NewGraph(model.KindEContract)
	b := model.NewGraph(model.KindSmartContract)
	b.Seal()

	_, err := NewEntityMatcher(0.55, nil).Match(a, b)
	assert.True(t, errors.Is(err, model.ErrUnsealedGraph))
}

// fixedLexicon scores one specific pair highly and everything else zero.
type fixedLexicon struct {
	a, b  string
	score float64
}

func (f fixedLexicon) Similarity(a, b string) float64 {
	if (a == f.a && b == f.b) || (a == f.b && b == f.a) {
		return f.score
	}
	return 0
}

func TestEntityMatch_SemanticLexiconBridgesVocabulary(t *testing.T) {
	a := model.NewGraph(model.KindEContract)
	require.NoError(t, a.AddNode(model.Node{ID: "amt", Type: model.NodeFinancialAmount, Label: "deposit"}))
	a.Seal()

	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{
		ID: "v", Type: model.NodeVariable, Label: "collateralizationReserveBalanceTracker",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	b.Seal()

	// Lexically unrelated labels stay unmatched.
	ms, err := NewEntityMatcher(0.55, nil).Match(a, b)
	require.NoError(t, err)
	assert.Empty(t, ms.Matches)

	// A lexicon that knows the reserve tracks the deposit closes the gap.
	lex := fixedLexicon{a: "deposit", b: "collateralizationReserveBalanceTracker", score: 0.9}
	ms, err = NewEntityMatcher(0.55, lex).Match(a, b)
	require.NoError(t, err)
	require.Len(t, ms.Matches, 1)
	assert.Equal(t, model.BasisTypeSemantic, ms.Matches[0].Basis)
}
