package score

import (
	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
)

// Weights configures score aggregation. Relationship preservation is
// weighted above entity preservation because relationships encode
// behavior; entities alone overstate similarity.
type Weights struct {
	Entity             float64
	Relationship       float64
	FinancialRiskBoost bool
}

const (
	financialBoostStep = 0.05
	financialBoostCap  = 0.25
)

type Scores struct {
	EntityPreservationPct       float64
	RelationshipPreservationPct float64
	OverallSimilarity           float64
	CoverageScore               float64
	ComplianceScore             float64
	RiskScore                   float64
}

// Aggregator derives the headline numbers purely from the match sets and
// the two graphs. No score comes from a disconnected validation pass; a
// contract that merely compiles earns nothing here.
type Aggregator struct {
	Weights Weights
}

func NewAggregator(w Weights) *Aggregator {
	return &Aggregator{Weights: w}
}

func (s *Aggregator) Aggregate(a *model.Graph, rels *match.RelationMatches, covAtoB model.Coverage) Scores {
	out := Scores{
		EntityPreservationPct:       covAtoB.Nodes * 100,
		RelationshipPreservationPct: covAtoB.Edges * 100,
		CoverageScore:               covAtoB.Edges,
	}

	wSum := s.Weights.Entity + s.Weights.Relationship
	if wSum > 0 {
		out.OverallSimilarity = (s.Weights.Entity*covAtoB.Nodes + s.Weights.Relationship*covAtoB.Edges) / wSum
	}

	out.ComplianceScore = s.compliance(a, rels)
	out.RiskScore = s.risk(a, rels, out.ComplianceScore)
	return out
}

// compliance is the fraction of A's obligation-carrying edges whose
// realization in B is enforceable, i.e. anchored on a function guarded by
// an access-control modifier rather than a bare event. A graph with no
// obligations has nothing left unenforced and scores 1.
func (s *Aggregator) compliance(a *model.Graph, rels *match.RelationMatches) float64 {
	enforced := make(map[string]bool)
	for _, m := range rels.Matches {
		if m.Enforceable {
			enforced[m.LeftEdgeID] = true
		}
	}

	total, ok := 0, 0
	for _, e := range a.Edges() {
		if e.Type != model.EdgeObligationAssignment && e.Type != model.EdgeResponsibility {
			continue
		}
		total++
		if enforced[e.ID] {
			ok++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(ok) / float64(total)
}

// risk is the inverse of compliance, boosted when unimplemented edges sit
// next to financial amounts: an unimplemented payment obligation is worse
// than an unimplemented descriptive clause.
func (s *Aggregator) risk(a *model.Graph, rels *match.RelationMatches, compliance float64) float64 {
	risk := 1 - compliance
	if s.Weights.FinancialRiskBoost {
		var boost float64
		for _, e := range a.Edges() {
			if rels.HasLeft(e.ID) {
				continue
			}
			if a.Touches(e, model.NodeFinancialAmount) {
				boost += financialBoostStep
			}
		}
		if boost > financialBoostCap {
			boost = financialBoostCap
		}
		risk += boost
	}
	if risk > 1 {
		risk = 1
	}
	if risk < 0 {
		risk = 0
	}
	return risk
}
