package match

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/chainscribe/concord/internal/core/model"
)

// Lexicon supplies semantic similarity between two labels in [0,1]. It must
// be pure and side-effect free: implementations that consult an external
// resource prepare themselves before matching begins.
type Lexicon interface {
	Similarity(a, b string) float64
}

// compatibility maps coarse business node types to the fine technical
// types that may realize them. The closure below makes the relation
// symmetric, and identical types are always compatible.
var compatibility = map[model.NodeType][]model.NodeType{
	model.NodeParty:           {model.NodeVariable, model.NodeParameter},
	model.NodeOrganization:    {model.NodeVariable, model.NodeParameter},
	model.NodeFinancialAmount: {model.NodeVariable, model.NodeParameter},
	model.NodeTemporal:        {model.NodeVariable, model.NodeParameter},
	model.NodeObligation:      {model.NodeFunction, model.NodeModifier, model.NodeEvent},
	model.NodeCondition:       {model.NodeModifier, model.NodeFunction},
	model.NodeTerm:            {model.NodeVariable, model.NodeParameter, model.NodeStructMember},
	model.NodeDefinition:      {model.NodeStructMember, model.NodeVariable, model.NodeEvent},
}

var compatible = func() map[model.NodeType]map[model.NodeType]bool {
	m := make(map[model.NodeType]map[model.NodeType]bool)
	add := func(a, b model.NodeType) {
		if m[a] == nil {
			m[a] = make(map[model.NodeType]bool)
		}
		m[a][b] = true
	}
	for coarse, fines := range compatibility {
		for _, fine := range fines {
			add(coarse, fine)
			add(fine, coarse)
		}
	}
	return m
}()

// Score weights. When no lexicon is configured the semantic weight is
// folded into the lexical term, so thresholds keep the same meaning.
const (
	weightType        = 0.40
	weightLexical     = 0.35
	weightSemantic    = 0.25
	exactLabelFloor   = 0.95
	attributeAffinity = 0.85 // type score when the attribute hint is absent
)

// EntityMatcher pairs nodes across two sealed graphs of possibly very
// different node counts. Pure; O(|nodesA|*|nodesB|).
type EntityMatcher struct {
	Threshold float64
	Lexicon   Lexicon
}

func NewEntityMatcher(threshold float64, lexicon Lexicon) *EntityMatcher {
	return &EntityMatcher{Threshold: threshold, Lexicon: lexicon}
}

// Match produces the many-valued match relation between graph A and graph
// B. Iteration is keyed by the coarser (smaller) graph so that one coarse
// node may collect several fine counterparts; reported matches are always
// normalized as left = A, right = B.
func (m *EntityMatcher) Match(a, b *model.Graph) (*model.MatchSet, error) {
	if !a.Sealed() || !b.Sealed() {
		return nil, errors.Wrap(model.ErrUnsealedGraph, "entity matching")
	}

	coarse, fine := a, b
	flipped := false
	if b.NodeCount() < a.NodeCount() {
		coarse, fine = b, a
		flipped = true
	}

	fineNodes := fine.Nodes()
	var matches []model.Match

	for _, cn := range coarse.Nodes() {
		candidates := m.candidates(cn, fineNodes)
		for _, cand := range candidates {
			mt := model.Match{
				LeftNodeID:  cn.ID,
				RightNodeID: cand.node.ID,
				Similarity:  cand.score,
				Basis:       cand.basis,
			}
			if flipped {
				mt.LeftNodeID, mt.RightNodeID = mt.RightNodeID, mt.LeftNodeID
			}
			matches = append(matches, mt)
		}
	}

	return model.NewMatchSet(matches), nil
}

type candidate struct {
	node  *model.Node
	score float64
	basis model.MatchBasis
}

// candidates scores one coarse node against every fine node and keeps the
// pairs that are type-compatible and clear the acceptance threshold,
// ordered by score descending then node ID ascending for reproducibility.
func (m *EntityMatcher) candidates(cn *model.Node, fineNodes []*model.Node) []candidate {
	var out []candidate
	for _, fn := range fineNodes {
		typeScore, ok := m.typeScore(cn, fn)
		if !ok {
			continue
		}
		score, basis := m.combined(cn, fn, typeScore)
		if score < m.Threshold {
			continue
		}
		out = append(out, candidate{node: fn, score: score, basis: basis})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].node.ID < out[j].node.ID
	})
	return out
}

func (m *EntityMatcher) combined(cn, fn *model.Node, typeScore float64) (float64, model.MatchBasis) {
	lex := LexicalSimilarity(cn.Label, fn.Label)

	var sem float64
	if m.Lexicon != nil {
		sem = m.Lexicon.Similarity(cn.Label, fn.Label)
	}

	var score float64
	if m.Lexicon != nil {
		score = weightType*typeScore + weightLexical*lex + weightSemantic*sem
	} else {
		score = weightType*typeScore + (weightLexical+weightSemantic)*lex
	}

	exact := NormalizeLabel(cn.Label) != "" && NormalizeLabel(cn.Label) == NormalizeLabel(fn.Label)
	if exact && score < exactLabelFloor {
		score = exactLabelFloor
	}
	if score > 1 {
		score = 1
	}

	basis := model.BasisTypeLexical
	switch {
	case exact:
		basis = model.BasisExactLabel
	case sem > lex:
		basis = model.BasisTypeSemantic
	}
	return score, basis
}

// typeScore returns the type-compatibility component, refined by attribute
// hints: a PARTY maps best onto an address-typed variable, a
// FINANCIAL_AMOUNT onto a numeric one.
func (m *EntityMatcher) typeScore(a, b *model.Node) (float64, bool) {
	if a.Type == b.Type {
		return 1, true
	}
	if !compatible[a.Type][b.Type] {
		return 0, false
	}
	coarse, fine := a, b
	if isTechnical(a.Type) {
		coarse, fine = b, a
	}
	if hintMatches(coarse.Type, fine) {
		return 1, true
	}
	return attributeAffinity, true
}

func isTechnical(t model.NodeType) bool {
	switch t {
	case model.NodeFunction, model.NodeVariable, model.NodeEvent,
		model.NodeModifier, model.NodeParameter, model.NodeStructMember:
		return true
	}
	return false
}

func hintMatches(coarse model.NodeType, fine *model.Node) bool {
	st := fine.Attr("solidity_type")
	switch coarse {
	case model.NodeParty, model.NodeOrganization:
		return st == "address" || st == "address payable"
	case model.NodeFinancialAmount:
		return numericSolidityType(st)
	case model.NodeTemporal:
		return numericSolidityType(st) || st == "timestamp"
	}
	return false
}

func numericSolidityType(st string) bool {
	if st == "" {
		return false
	}
	return st == "uint" || st == "int" ||
		(len(st) > 3 && (st[:4] == "uint" || st[:3] == "int"))
}
