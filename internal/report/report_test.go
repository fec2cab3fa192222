package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainscribe/concord/internal/core/model"
)

func weakResult() *model.ComparisonResult {
	return &model.ComparisonResult{
		EntityPreservationPct:       50,
		RelationshipPreservationPct: 0,
		OverallSimilarity:           0.2,
		ComplianceScore:             0.5,
		RiskScore:                   0.75,
		UnmatchedEntities: []model.UnmatchedEntity{
			{NodeID: "n1", Type: model.NodeParty, Label: "Landlord"},
			{NodeID: "n2", Type: model.NodeFinancialAmount, Label: "$500 deposit"},
		},
		UnmatchedRelationships: []model.UnmatchedRelationship{
			{EdgeID: "e1", Type: model.EdgeObligationAssignment, SourceLabel: "Tenant", TargetLabel: "$1500/month"},
		},
		ImbalanceWarning: &model.ImbalanceWarning{Ratio: 6.2, Threshold: 5},
	}
}

func TestRecommendations_OrderedBySeverity(t *testing.T) {
	recs := Recommendations(weakResult())
	require.Len(t, recs, 6)

	assert.Contains(t, recs[0], "50%")
	assert.Contains(t, recs[1], "0.75")
	assert.Contains(t, recs[2], "$500 deposit")
	assert.Contains(t, recs[3], "Landlord")
	assert.Contains(t, recs[4], "OBLIGATION_ASSIGNMENT")
	assert.Contains(t, recs[5], "6.2")
}

func TestRecommendations_CleanResult(t *testing.T) {
	recs := Recommendations(&model.ComparisonResult{ComplianceScore: 1.0})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "no changes recommended")
}

func TestRecommendations_Nil(t *testing.T) {
	assert.Nil(t, Recommendations(nil))
}

// stubGenerator returns a fixed response or error.
type stubGenerator struct {
	response string
	err      error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.response, s.err
}

func TestBuild_WithNarrative(t *testing.T) {
	gen := stubGenerator{response: "Here you go:\n{\"narrative\": \"Half the agreement is implemented.\"}"}
	w := NewWriter(gen, nil)

	rep := w.Build(context.Background(), weakResult())
	assert.Equal(t, "Half the agreement is implemented.", rep.Narrative)
	assert.NotEmpty(t, rep.Recommendations)
}

func TestBuild_NoGenerator(t *testing.T) {
	rep := NewWriter(nil, nil).Build(context.Background(), weakResult())
	assert.Empty(t, rep.Narrative)
	assert.NotEmpty(t, rep.Recommendations)
}

func TestBuild_GeneratorFailureIsNotFatal(t *testing.T) {
	w := NewWriter(stubGenerator{err: fmt.Errorf("provider down")}, nil)
	rep := w.Build(context.Background(), weakResult())
	assert.Empty(t, rep.Narrative)
	assert.NotEmpty(t, rep.Recommendations)

	w = NewWriter(stubGenerator{response: "not json at all"}, nil)
	rep = w.Build(context.Background(), weakResult())
	assert.Empty(t, rep.Narrative)
}
