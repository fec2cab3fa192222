package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscribe/concord/internal/core/model"
)

func TestBridging_Defaults(t *testing.T) {
	b := DefaultBridging()

	// Identity for every kind.
	assert.True(t, b.Bridges(model.EdgeObligationAssignment, model.EdgeObligationAssignment))
	assert.True(t, b.Bridges(model.EdgeEmits, model.EdgeEmits))

	// Events realize business relationships, in both lookup directions.
	assert.True(t, b.Bridges(model.EdgeEmits, model.EdgeObligationAssignment))
	assert.True(t, b.Bridges(model.EdgeObligationAssignment, model.EdgeEmits))
	assert.True(t, b.Bridges(model.EdgeEmits, model.EdgeTemporalReference))

	// Structural implementation edges realize structural business edges.
	assert.True(t, b.Bridges(model.EdgeCalls, model.EdgeDependency))
	assert.True(t, b.Bridges(model.EdgeModifies, model.EdgeHierarchy))
	assert.True(t, b.Bridges(model.EdgeDeclares, model.EdgeDependency))

	// No bridge between unrelated kinds.
	assert.False(t, b.Bridges(model.EdgeCalls, model.EdgeObligationAssignment))
	assert.False(t, b.Bridges(model.EdgeEmits, model.EdgeDependency))
}

func TestBridging_Override(t *testing.T) {
	b := DefaultBridging()
	err := b.Override(map[string][]string{
		"EMITS": {"TEMPORAL_REFERENCE"},
	})
	require.NoError(t, err)

	// The override replaces the set but never the identity bridge.
	assert.True(t, b.Bridges(model.EdgeEmits, model.EdgeEmits))
	assert.True(t, b.Bridges(model.EdgeEmits, model.EdgeTemporalReference))
	assert.False(t, b.Bridges(model.EdgeEmits, model.EdgeObligationAssignment))

	assert.Error(t, b.Override(map[string][]string{"NOPE": {"EMITS"}}))
	assert.Error(t, b.Override(map[string][]string{"EMITS": {"NOPE"}}))
}

func TestRelationshipMatch_EventRealizesObligation(t *testing.T) {
	a, b := leaseGraphs(t)

	entities, err := NewEntityMatcher(0.55, nil).Match(a, b)
	require.NoError(t, err)

	rels, err := NewRelationshipMatcher(DefaultBridging()).Match(a, b, entities)
	require.NoError(t, err)

	// The payment obligation is realized by the EMITS edge: its type bridges
	// and monthlyRent, the matched counterpart of the amount, sits next to
	// payRent.
	require.Len(t, rels.Matches, 1)
	m := rels.Matches[0]
	assert.Equal(t, "a-oa", m.LeftEdgeID)
	assert.Equal(t, "b-emit", m.RightEdgeID)
	assert.Equal(t, model.EdgeObligationAssignment, m.LeftType)
	assert.Equal(t, model.EdgeEmits, m.RightType)

	// payRent is guarded by the onlyTenant modifier.
	assert.True(t, m.Enforceable)

	assert.True(t, rels.HasLeft("a-oa"))
	assert.True(t, rels.HasRight("b-emit"))
	assert.False(t, rels.HasRight("b-write"))
}

func TestRelationshipMatch_SelfComparisonIsIdentity(t *testing.T) {
	a, _ := leaseGraphs(t)

	entities, err := NewEntityMatcher(0.55, nil).Match(a, a)
	require.NoError(t, err)

	rels, err := NewRelationshipMatcher(DefaultBridging()).Match(a, a, entities)
	require.NoError(t, err)

	// Every edge matches itself on endpoint correspondence.
	for _, e := range a.Edges() {
		assert.True(t, rels.HasLeft(e.ID), "edge %s should match itself", e.ID)
	}
}

func TestRelationshipMatch_NoEntityMatchesNoRealization(t *testing.T) {
	a, b := leaseGraphs(t)

	// With no entity matches at all, no tier can fire.
	rels, err := NewRelationshipMatcher(DefaultBridging()).Match(a, b, model.NewMatchSet(nil))
	require.NoError(t, err)
	assert.Empty(t, rels.Matches)
}

func TestRelationshipMatch_UnenforceableWithoutModifier(t *testing.T) {
	a, _ := leaseGraphs(t)

	// Same technical graph but the function carries no modifier.
	b := model.NewGraph(model.KindSmartContract)
	require.NoError(t, b.AddNode(model.Node{ID: "b-fn", Type: model.NodeFunction, Label: "payRent"}))
	require.NoError(t, b.AddNode(model.Node{ID: "b-ev", Type: model.NodeEvent, Label: "RentPaid"}))
	require.NoError(t, b.AddNode(model.Node{ID: "b-tenant", Type: model.NodeVariable, Label: "tenant"}))
	require.NoError(t, b.AddNode(model.Node{
		ID: "b-rent", Type: model.NodeVariable, Label: "monthlyRent",
		Attributes: map[string]interface{}{"solidity_type": "uint256"},
	}))
	require.NoError(t, b.AddEdge(model.Edge{
		ID: "b-emit", Type: model.EdgeEmits, SourceID: "b-fn", TargetID: "b-ev", Confidence: 0.95,
	}))
	require.NoError(t, b.AddEdge(model.Edge{
		ID: "b-write", Type: model.EdgeModifies, SourceID: "b-fn", TargetID: "b-rent", Confidence: 0.9,
	}))
	b.Seal()

	entities, err := NewEntityMatcher(0.55, nil).Match(a, b)
	require.NoError(t, err)
	rels, err := NewRelationshipMatcher(DefaultBridging()).Match(a, b, entities)
	require.NoError(t, err)

	require.Len(t, rels.Matches, 1)
	assert.False(t, rels.Matches[0].Enforceable)
}

func TestUnmatchedRelationships_CarriesLabels(t *testing.T) {
	a, _ := leaseGraphs(t)

	out := UnmatchedRelationships(a, func(string) bool { return false })
	require.Len(t, out, 1)
	assert.Equal(t, "a-oa", out[0].EdgeID)
	assert.Equal(t, "Tenant", out[0].SourceLabel)
	assert.Equal(t, "$1500/month", out[0].TargetLabel)
}
