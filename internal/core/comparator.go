package core

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/chainscribe/concord/internal/config"
	"github.com/chainscribe/concord/internal/core/analysis"
	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
	"github.com/chainscribe/concord/internal/core/quality"
	"github.com/chainscribe/concord/internal/core/score"
)

// Comparator wires the matchers, analyzer, aggregator and quality engine
// together. It is immutable after construction and safe for concurrent
// use: each Compare call is a pure function of its two sealed graphs and
// the configuration captured here.
type Comparator struct {
	cfg      config.EngineConfig
	log      *zap.Logger
	entities *match.EntityMatcher
	rels     *match.RelationshipMatcher
	analyzer *analysis.Analyzer
	scores   *score.Aggregator
	filter   *quality.Filter
	accuracy *quality.Engine
}

// NewComparator builds a comparator from configuration and an optional
// semantic lexicon (nil means lexical-only matching).
func NewComparator(cfg config.EngineConfig, lexicon match.Lexicon, log *zap.Logger) (*Comparator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	bridging := match.DefaultBridging()
	if err := bridging.Override(cfg.Bridging); err != nil {
		return nil, errors.Wrap(err, "configure bridging table")
	}
	return &Comparator{
		cfg:      cfg,
		log:      log,
		entities: match.NewEntityMatcher(cfg.AcceptanceThreshold, lexicon),
		rels:     match.NewRelationshipMatcher(bridging),
		analyzer: analysis.NewAnalyzer(cfg.ImbalanceWarningRatio),
		scores: score.NewAggregator(score.Weights{
			Entity:             cfg.EntityWeight,
			Relationship:       cfg.RelationshipWeight,
			FinancialRiskBoost: cfg.FinancialRiskBoost,
		}),
		filter:   quality.NewFilter(cfg.TopKRelationships),
		accuracy: quality.NewEngine(quality.Weights{
			Content: cfg.AccuracyWeights.Content,
			Quality: cfg.AccuracyWeights.Quality,
		}, cfg.DeploymentThreshold, cfg.ConsistencyTolerance),
	}, nil
}

// Compare measures how faithfully graph B implements graph A. Both graphs
// must be sealed. Cancellation is cooperative and checked between the
// major phases, never inside a matching loop.
func (c *Comparator) Compare(ctx context.Context, a, b *model.Graph) (*model.ComparisonResult, error) {
	if a == nil || b == nil {
		return nil, errors.New("compare: nil graph")
	}
	if !a.Sealed() || !b.Sealed() {
		return nil, errors.Wrap(model.ErrUnsealedGraph, "compare")
	}

	entityMatches, err := c.entities.Match(a, b)
	if err != nil {
		return nil, err
	}
	c.log.Debug("entity matching complete",
		zap.Int("matches", len(entityMatches.Matches)),
		zap.Int("nodes_a", a.NodeCount()),
		zap.Int("nodes_b", b.NodeCount()))

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "cancelled after entity matching")
	}

	relMatches, err := c.rels.Match(a, b, entityMatches)
	if err != nil {
		return nil, err
	}
	c.log.Debug("relationship matching complete",
		zap.Int("matches", len(relMatches.Matches)))

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "cancelled after relationship matching")
	}

	covAtoB := analysis.Coverage(a, entityMatches.HasLeft, relMatches.HasLeft)
	covBtoA := analysis.Coverage(b, entityMatches.HasRight, relMatches.HasRight)
	ratio := c.analyzer.ImbalanceRatio(a, b)
	agg := c.scores.Aggregate(a, relMatches, covAtoB)

	result := &model.ComparisonResult{
		EntityPreservationPct:       agg.EntityPreservationPct,
		RelationshipPreservationPct: agg.RelationshipPreservationPct,
		OverallSimilarity:           agg.OverallSimilarity,
		CoverageScore:               agg.CoverageScore,
		ComplianceScore:             agg.ComplianceScore,
		RiskScore:                   agg.RiskScore,
		ImbalanceRatio:              ratio,
		CoverageAtoB:                covAtoB,
		CoverageBtoA:                covBtoA,
		EntityMatches:               entityMatches.Matches,
		RelationshipMatches:         relMatches.Matches,
		UnmatchedEntities:           unmatchedEntities(a, entityMatches.HasLeft),
		UnmatchedRelationships:      match.UnmatchedRelationships(a, relMatches.HasLeft),
		ImbalanceWarning:            c.analyzer.Warning(ratio),
		StatsA:                      a.Stats(),
		StatsB:                      b.Stats(),
		ComponentsA:                 len(analysis.Components(a)),
		ComponentsB:                 len(analysis.Components(b)),
		IsolatedNodesA:              analysis.IsolatedNodes(a),
		IsolatedNodesB:              analysis.IsolatedNodes(b),
	}

	if result.ImbalanceWarning != nil {
		c.log.Warn("graph cardinality imbalance",
			zap.Float64("ratio", ratio),
			zap.Float64("threshold", c.cfg.ImbalanceWarningRatio))
	}
	return result, nil
}

// FilterRelationships selects the bounded, deduplicated top-K candidate
// relationships for implementation.
func (c *Comparator) FilterRelationships(candidates []quality.Candidate) []quality.Candidate {
	return c.filter.Select(candidates)
}

// AssessGeneration scores a rendered contract against its source graph.
// When the caller has compared the same pair of graphs, passing that
// result arms the consistency guard between accuracy and overall
// similarity; with a nil result the guard is skipped.
func (c *Comparator) AssessGeneration(ctx context.Context, src *model.Graph, generated string, cmp *model.ComparisonResult) (quality.Report, error) {
	if err := ctx.Err(); err != nil {
		return quality.Report{}, errors.Wrap(err, "cancelled before accuracy assessment")
	}
	overall := 1.0 // no independent comparison: tolerance can never trip
	if cmp != nil {
		overall = cmp.OverallSimilarity
	}
	rep, err := c.accuracy.Assess(src, generated, overall)
	if err != nil {
		return quality.Report{}, err
	}
	if rep.Inconsistency != nil {
		c.log.Warn("accuracy inconsistent with overall similarity",
			zap.Float64("accuracy", rep.Accuracy),
			zap.Float64("overall_similarity", overall))
	}
	return rep, nil
}

func unmatchedEntities(g *model.Graph, has func(string) bool) []model.UnmatchedEntity {
	var out []model.UnmatchedEntity
	for _, n := range g.Nodes() {
		if !has(n.ID) {
			out = append(out, model.UnmatchedEntity{NodeID: n.ID, Type: n.Type, Label: n.Label})
		}
	}
	return out
}
