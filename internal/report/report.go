package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/chainscribe/concord/internal/core/common"
	"github.com/chainscribe/concord/internal/core/model"
	"github.com/chainscribe/concord/internal/semantic"
)

// Report is the human-facing rendering of a comparison. Recommendations
// are derived deterministically from the result; the narrative is optional
// prose from a generator and never feeds back into any score.
type Report struct {
	Result          *model.ComparisonResult `json:"result"`
	Recommendations []string                `json:"recommendations"`
	Narrative       string                  `json:"narrative,omitempty"`
}

// Writer builds reports. The generator may be nil, in which case reports
// carry recommendations only.
type Writer struct {
	gen semantic.Generator
	log *zap.Logger
}

func NewWriter(gen semantic.Generator, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{gen: gen, log: log}
}

// Build assembles a report for a finished comparison. Narrative failures
// are logged and swallowed: the deterministic part of the report always
// comes through.
func (w *Writer) Build(ctx context.Context, result *model.ComparisonResult) Report {
	rep := Report{
		Result:          result,
		Recommendations: Recommendations(result),
	}
	if w.gen == nil {
		return rep
	}
	narrative, err := w.narrate(ctx, result)
	if err != nil {
		w.log.Warn("narrative generation failed", zap.Error(err))
		return rep
	}
	rep.Narrative = narrative
	return rep
}

// Recommendations derives actionable guidance from the comparison result.
// The rules are ordered from most to least severe so the list reads as a
// priority queue.
func Recommendations(r *model.ComparisonResult) []string {
	if r == nil {
		return nil
	}
	var recs []string

	if r.ComplianceScore < 1.0 {
		recs = append(recs, fmt.Sprintf(
			"Only %.0f%% of contractual obligations are backed by access-controlled functions; add modifiers or require guards for the rest.",
			r.ComplianceScore*100))
	}
	if r.RiskScore > 0.5 {
		recs = append(recs, fmt.Sprintf(
			"Risk score %.2f is high; unenforced obligations and unmatched financial relationships need review before deployment.",
			r.RiskScore))
	}

	// Group unmatched entities by type so one recommendation covers a class
	// of omissions instead of one line per node.
	byType := make(map[model.NodeType][]string)
	for _, u := range r.UnmatchedEntities {
		byType[u.Type] = append(byType[u.Type], u.Label)
	}
	types := make([]model.NodeType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		labels := byType[t]
		sort.Strings(labels)
		recs = append(recs, fmt.Sprintf(
			"No counterpart found for %s: %s.", strings.ToLower(string(t)), strings.Join(labels, ", ")))
	}

	for _, u := range r.UnmatchedRelationships {
		recs = append(recs, fmt.Sprintf(
			"Relationship %s between %q and %q is not implemented.",
			u.Type, u.SourceLabel, u.TargetLabel))
	}

	if r.ImbalanceWarning != nil {
		recs = append(recs, fmt.Sprintf(
			"Graph sizes differ by a factor of %.1f; the comparison may be dominated by granularity rather than omissions.",
			r.ImbalanceWarning.Ratio))
	}
	if len(recs) == 0 {
		recs = append(recs, "All entities and relationships are preserved; no changes recommended.")
	}
	return recs
}

type narrativeResponse struct {
	Narrative string `json:"narrative"`
}

func (w *Writer) narrate(ctx context.Context, r *model.ComparisonResult) (string, error) {
	prompt := fmt.Sprintf(`You are reviewing how faithfully a smart contract implements a legal contract.

Scores:
- entity preservation: %.1f%%
- relationship preservation: %.1f%%
- overall similarity: %.2f
- compliance: %.2f
- risk: %.2f

Unmatched entities: %d. Unmatched relationships: %d.

Write a short paragraph (3-5 sentences) for a non-technical reader summarizing
how complete the implementation is and what the main gaps are. Respond with a
JSON object: {"narrative": "..."}`,
		r.EntityPreservationPct, r.RelationshipPreservationPct,
		r.OverallSimilarity, r.ComplianceScore, r.RiskScore,
		len(r.UnmatchedEntities), len(r.UnmatchedRelationships))

	resp, err := w.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	parsed, err := common.ParseJSON[narrativeResponse](resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Narrative), nil
}
