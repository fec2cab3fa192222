package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
)

func defaultWeights() Weights {
	return Weights{Entity: 0.4, Relationship: 0.6, FinancialRiskBoost: true}
}

func obligationGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph(model.KindEContract)
	require.NoError(t, g.AddNode(model.Node{ID: "p", Type: model.NodeParty, Label: "Tenant"}))
	require.NoError(t, g.AddNode(model.Node{ID: "amt", Type: model.NodeFinancialAmount, Label: "$1500"}))
	require.NoError(t, g.AddNode(model.Node{ID: "ob", Type: model.NodeObligation, Label: "maintain premises"}))
	require.NoError(t, g.AddEdge(model.Edge{ID: "pay", Type: model.EdgeObligationAssignment, SourceID: "p", TargetID: "amt", Confidence: 0.9}))
	require.NoError(t, g.AddEdge(model.Edge{ID: "maint", Type: model.EdgeResponsibility, SourceID: "p", TargetID: "ob", Confidence: 0.8}))
	g.Seal()
	return g
}

// relMatches builds a RelationMatches the way the matcher would, via the
// comparator-visible surface.
func relMatches(t *testing.T, a, b *model.Graph, entities *model.MatchSet) *match.RelationMatches {
	t.Helper()
	rels, err := match.NewRelationshipMatcher(match.DefaultBridging()).Match(a, b, entities)
	require.NoError(t, err)
	return rels
}

func TestAggregate_WeightsAndPercentages(t *testing.T) {
	a := obligationGraph(t)
	agg := NewAggregator(defaultWeights())

	// Coverage computed elsewhere; aggregation only weighs it.
	got := agg.Aggregate(a, relMatches(t, a, a, model.NewMatchSet(nil)), model.Coverage{Nodes: 0.5, Edges: 1.0})

	assert.InDelta(t, 50.0, got.EntityPreservationPct, 1e-9)
	assert.InDelta(t, 100.0, got.RelationshipPreservationPct, 1e-9)
	assert.InDelta(t, 0.4*0.5+0.6*1.0, got.OverallSimilarity, 1e-9)
	assert.InDelta(t, 1.0, got.CoverageScore, 1e-9)
}

func TestCompliance_NoObligationsScoresOne(t *testing.T) {
	g := model.NewGraph(model.KindEContract)
	require.NoError(t, g.AddNode(model.Node{ID: "t1", Type: model.NodeTerm, Label: "term"}))
	g.Seal()

	agg := NewAggregator(defaultWeights())
	got := agg.Aggregate(g, relMatches(t, g, g, model.NewMatchSet(nil)), model.Coverage{})
	assert.Equal(t, 1.0, got.ComplianceScore)
	assert.Equal(t, 0.0, got.RiskScore)
}

func TestComplianceAndRisk_EnforcedObligations(t *testing.T) {
	a := obligationGraph(t)

	// Technical graph: the payment function is guarded, so the payment
	// obligation is enforceable; the maintenance duty has no realization.
	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{ID: "fn", Type: model.NodeFunction, Label: "payRent"}))
	require.NoError(t, b.AddNode(model.Node{ID: "ev", Type: model.NodeEvent, Label: "RentPaid"}))
	require.NoError(t, b.AddNode(model.Node{
		ID: "amt", Type: model.NodeVariable, Label: "rentAmount1500",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	require.NoError(t, b.AddNode(model.Node{ID: "tv", Type: model.NodeVariable, Label: "tenant"}))
	require.NoError(t, b.AddNode(model.Node{ID: "md", Type: model.NodeModifier, Label: "onlyTenant"}))
	require.NoError(t, b.AddEdge(model.Edge{ID: "emit", Type: model.EdgeEmits, SourceID: "fn", TargetID: "ev", Confidence: 0.9}))
	require.NoError(t, b.AddEdge(model.Edge{ID: "write", Type: model.EdgeModifies, SourceID: "fn", TargetID: "amt", Confidence: 0.9}))
	require.NoError(t, b.AddEdge(model.Edge{ID: "guard", Type: model.EdgeCalls, SourceID: "md", TargetID: "fn", Confidence: 0.9}))
	b.Seal()

	entities := model.NewMatchSet([]model.Match{
		{LeftNodeID: "p", RightNodeID: "tv", Similarity: 0.95, Basis: model.BasisExactLabel},
		{LeftNodeID: "amt", RightNodeID: "amt", Similarity: 0.8, Basis: model.BasisTypeLexical},
	})
	rels := relMatches(t, a, b, entities)

	agg := NewAggregator(defaultWeights())
	got := agg.Aggregate(a, rels, model.Coverage{Nodes: 2.0 / 3.0, Edges: 0.5})

	// One of two obligation edges enforced.
	assert.InDelta(t, 0.5, got.ComplianceScore, 1e-9)
	// maint is unmatched but touches no financial amount, so no boost.
	assert.InDelta(t, 0.5, got.RiskScore, 1e-9)
}

func TestRisk_FinancialBoost(t *testing.T) {
	a := obligationGraph(t)

	// Nothing matched at all: compliance 0, and the unmatched payment edge
	// touches a financial amount, adding one boost step.
	rels, err := match.NewRelationshipMatcher(match.DefaultBridging()).Match(a, sealedEmpty(), model.NewMatchSet(nil))
	require.NoError(t, err)

	agg := NewAggregator(defaultWeights())
	got := agg.Aggregate(a, rels, model.Coverage{})
	assert.Equal(t, 0.0, got.ComplianceScore)
	assert.Equal(t, 1.0, got.RiskScore) // 1 - 0 + 0.05, clamped to 1

	// With the boost disabled risk is exactly the compliance inverse.
	agg = NewAggregator(Weights{Entity: 0.4, Relationship: 0.6, FinancialRiskBoost: false})
	got = agg.Aggregate(a, rels, model.Coverage{})
	assert.Equal(t, 1.0, got.RiskScore)
}

func TestRisk_BoostCap(t *testing.T) {
	// Six unmatched financial edges would add 0.30; the cap holds it at 0.25.
	g := model.NewGraph(model.KindEContract)
	require.NoError(t, g.AddNode(model.Node{ID: "p", Type: model.NodeParty, Label: "Payer"}))
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		require.NoError(t, g.AddNode(model.Node{ID: id, Type: model.NodeFinancialAmount, Label: "fee " + id}))
		require.NoError(t, g.AddEdge(model.Edge{
			ID: "e" + id, Type: model.EdgeObligationAssignment,
			SourceID: "p", TargetID: id, Confidence: 0.9,
		}))
	}
	g.Seal()

	rels, err := match.NewRelationshipMatcher(match.DefaultBridging()).Match(g, sealedEmpty(), model.NewMatchSet(nil))
	require.NoError(t, err)

	// Force partial compliance so the cap is observable below the 1.0 clamp:
	// with compliance 0 risk would saturate regardless of the boost.
	agg := NewAggregator(defaultWeights())
	got := agg.Aggregate(g, rels, model.Coverage{})
	assert.Equal(t, 1.0, got.RiskScore)

	// Verify the cap directly on the risk arithmetic.
	risk := agg.risk(g, rels, 0.9)
	assert.InDelta(t, 0.1+0.25, risk, 1e-9)
}

func sealedEmpty() *model.Graph {
	g := model.NewGraph(model.KindSmartContract)
	g.Seal()
	return g
}
