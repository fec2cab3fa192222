package analysis

import (
	"github.com/chainscribe/concord/internal/core/model"
)

// Analyzer computes cardinality-skew diagnostics and bidirectional
// coverage. The imbalance warning is metadata only and never feeds a
// score penalty.
type Analyzer struct {
	WarningRatio float64
}

func NewAnalyzer(warningRatio float64) *Analyzer {
	return &Analyzer{WarningRatio: warningRatio}
}

// ImbalanceRatio is max(|nodesA|,|nodesB|) / min(|nodesA|,|nodesB|).
// Two empty graphs are trivially balanced; one empty side degenerates to
// the other side's node count.
func (a *Analyzer) ImbalanceRatio(ga, gb *model.Graph) float64 {
	na, nb := ga.NodeCount(), gb.NodeCount()
	lo, hi := na, nb
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 1.0
	}
	if lo == 0 {
		return float64(hi)
	}
	return float64(hi) / float64(lo)
}

// Warning returns an imbalance warning when the ratio exceeds the
// configured threshold, nil otherwise.
func (a *Analyzer) Warning(ratio float64) *model.ImbalanceWarning {
	if ratio <= a.WarningRatio {
		return nil
	}
	return &model.ImbalanceWarning{Ratio: ratio, Threshold: a.WarningRatio}
}

// Coverage computes one direction's matched fractions. A node or edge
// counts once however many counterparts it matched, so many-to-one
// matching never dilutes the percentage. Empty graphs yield 0, not NaN.
func Coverage(g *model.Graph, nodeMatched, edgeMatched func(string) bool) model.Coverage {
	var c model.Coverage
	if n := g.NodeCount(); n > 0 {
		matched := 0
		for _, node := range g.Nodes() {
			if nodeMatched(node.ID) {
				matched++
			}
		}
		c.Nodes = float64(matched) / float64(n)
	}
	if n := g.EdgeCount(); n > 0 {
		matched := 0
		for _, edge := range g.Edges() {
			if edgeMatched(edge.ID) {
				matched++
			}
		}
		c.Edges = float64(matched) / float64(n)
	}
	return c
}
