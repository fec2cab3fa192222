package quality

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/core/model"
)

// Weights splits generation accuracy between content preservation and
// code quality. Content dominates by default: a syntactically pristine
// contract that names none of the agreement's parties or amounts is not an
// accurate contract.
type Weights struct {
	Content float64
	Quality float64
}

// Engine computes the generation accuracy of a rendered contract against
// the e-contract graph it was generated from.
type Engine struct {
	Weights              Weights
	DeploymentThreshold  float64
	ConsistencyTolerance float64
}

func NewEngine(w Weights, deploymentThreshold, consistencyTolerance float64) *Engine {
	return &Engine{
		Weights:              w,
		DeploymentThreshold:  deploymentThreshold,
		ConsistencyTolerance: consistencyTolerance,
	}
}

// Report is the accuracy engine's output.
type Report struct {
	Accuracy            float64                          `json:"accuracy"`
	ContentPreservation float64                          `json:"content_preservation"`
	CodeQuality         float64                          `json:"code_quality"`
	DeploymentReady     bool                             `json:"deployment_ready"`
	MissingValues       []string                         `json:"missing_values,omitempty"`
	Inconsistency       *model.InconsistentScoreWarning  `json:"inconsistency,omitempty"`
}

// contentTypes are the node kinds whose literal values must survive into
// the generated contract: party names, amounts, dates.
var contentTypes = []model.NodeType{
	model.NodeParty,
	model.NodeOrganization,
	model.NodeFinancialAmount,
	model.NodeTemporal,
}

// Assess scores the generated text against the source graph. The caller
// passes the overall similarity it computed for the same pair of graphs;
// when accuracy exceeds it beyond tolerance the report carries an
// inconsistency warning rather than a silently trusted number. Both
// numbers are still returned.
func (e *Engine) Assess(src *model.Graph, generated string, overallSimilarity float64) (Report, error) {
	if !src.Sealed() {
		return Report{}, errors.Wrap(model.ErrUnsealedGraph, "accuracy assessment")
	}

	values := distinctContentValues(src)
	present, missing := scanForValues(values, generated)

	var content float64
	if len(values) > 0 {
		content = float64(present) / float64(len(values))
	}
	codeQuality := ScanCode(generated)

	wSum := e.Weights.Content + e.Weights.Quality
	var accuracy float64
	if wSum > 0 {
		accuracy = (e.Weights.Content*content + e.Weights.Quality*codeQuality) / wSum
	}

	rep := Report{
		Accuracy:            accuracy,
		ContentPreservation: content,
		CodeQuality:         codeQuality,
		DeploymentReady:     accuracy >= e.DeploymentThreshold,
		MissingValues:       missing,
	}
	if accuracy > overallSimilarity+e.ConsistencyTolerance {
		rep.Inconsistency = &model.InconsistentScoreWarning{
			Accuracy:          accuracy,
			OverallSimilarity: overallSimilarity,
			Tolerance:         e.ConsistencyTolerance,
		}
	}
	return rep, nil
}

// distinctContentValues collects the normalized labels of content-bearing
// nodes, deduplicated and sorted.
func distinctContentValues(g *model.Graph) []string {
	seen := make(map[string]bool)
	for _, t := range contentTypes {
		for _, n := range g.NodesByType(t) {
			norm := match.NormalizeLabel(n.Label)
			if norm != "" {
				seen[norm] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// scanForValues checks each normalized value against the normalized
// generated text. A value counts as present when each of its tokens
// appears in the text, exactly or by shared root, so "monthlyRent = 1500"
// preserves "$1500/month".
func scanForValues(values []string, generated string) (present int, missing []string) {
	text := match.NormalizeLabel(generated)
	textTokens := strings.Fields(text)

	for _, v := range values {
		if valuePresent(v, text, textTokens) {
			present++
		} else {
			missing = append(missing, v)
		}
	}
	return present, missing
}

func valuePresent(value, text string, textTokens []string) bool {
	if strings.Contains(text, value) {
		return true
	}
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !tokenPresent(tok, textTokens) {
			return false
		}
	}
	return true
}

func tokenPresent(tok string, textTokens []string) bool {
	for _, t := range textTokens {
		if t == tok {
			return true
		}
		if len(tok) >= 4 && len(t) >= 4 && tok[:4] == t[:4] {
			return true
		}
	}
	return false
}
