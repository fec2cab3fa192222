package model

// EdgeType is the closed set of relationship kinds across both graph
// vocabularies. Which technical kind may realize which business kind is
// decided by the bridging table in the relationship matcher, not here.
type EdgeType string

const (
	EdgeDependency           EdgeType = "DEPENDENCY"
	EdgeHierarchy            EdgeType = "HIERARCHY"
	EdgeReference            EdgeType = "REFERENCE"
	EdgeImplication          EdgeType = "IMPLICATION"
	EdgeObligationAssignment EdgeType = "OBLIGATION_ASSIGNMENT"
	EdgeTemporalReference    EdgeType = "TEMPORAL_REFERENCE"
	EdgePartyRelationship    EdgeType = "PARTY_RELATIONSHIP"
	EdgeResponsibility       EdgeType = "RESPONSIBILITY"
	EdgeEmits                EdgeType = "EMITS"
	EdgeCalls                EdgeType = "CALLS"
	EdgeModifies             EdgeType = "MODIFIES"
	EdgeDeclares             EdgeType = "DECLARES"
)

var edgeTypes = map[EdgeType]bool{
	EdgeDependency:           true,
	EdgeHierarchy:            true,
	EdgeReference:            true,
	EdgeImplication:          true,
	EdgeObligationAssignment: true,
	EdgeTemporalReference:    true,
	EdgePartyRelationship:    true,
	EdgeResponsibility:       true,
	EdgeEmits:                true,
	EdgeCalls:                true,
	EdgeModifies:             true,
	EdgeDeclares:             true,
}

func (t EdgeType) Valid() bool {
	return edgeTypes[t]
}

type Edge struct {
	ID          string   `json:"id"`
	Type        EdgeType `json:"type"`
	SourceID    string   `json:"source_node_id"`
	TargetID    string   `json:"target_node_id"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description,omitempty"`
}

// endpointRule constrains which node types may appear at each end of an
// edge type. A nil set means any type is accepted at that end.
type endpointRule struct {
	source map[NodeType]bool
	target map[NodeType]bool
}

func typeSet(types ...NodeType) map[NodeType]bool {
	s := make(map[NodeType]bool, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

var actors = typeSet(NodeParty, NodeOrganization)

// endpointRules is checked at edge insertion. Violations are producer bugs,
// surfaced as ErrStructuralViolation and never repaired by the comparator.
var endpointRules = map[EdgeType]endpointRule{
	EdgeEmits: {
		source: typeSet(NodeFunction),
		target: typeSet(NodeEvent),
	},
	EdgeCalls: {
		source: typeSet(NodeFunction, NodeModifier),
		target: typeSet(NodeFunction, NodeVariable, NodeParameter, NodeStructMember),
	},
	EdgeModifies: {
		source: typeSet(NodeFunction, NodeModifier),
		target: typeSet(NodeFunction, NodeVariable, NodeStructMember),
	},
	EdgeDeclares: {
		source: typeSet(NodeFunction),
		target: typeSet(NodeVariable, NodeParameter, NodeEvent, NodeModifier, NodeStructMember),
	},
	EdgeObligationAssignment: {
		source: actors,
		target: typeSet(NodeObligation, NodeFinancialAmount, NodeTemporal, NodeTerm, NodeCondition),
	},
	EdgeResponsibility: {
		source: actors,
		target: typeSet(NodeObligation, NodeFinancialAmount, NodeTerm, NodeCondition),
	},
	EdgePartyRelationship: {
		source: actors,
		target: actors,
	},
	EdgeTemporalReference: {
		target: typeSet(NodeTemporal),
	},
	// DEPENDENCY, HIERARCHY, REFERENCE and IMPLICATION carry no endpoint
	// constraints; they connect arbitrary elements in either vocabulary.
}

// allowsEndpoints reports whether src/dst node types are legal for t.
func (t EdgeType) allowsEndpoints(src, dst NodeType) bool {
	rule, ok := endpointRules[t]
	if !ok {
		return true
	}
	if rule.source != nil && !rule.source[src] {
		return false
	}
	if rule.target != nil && !rule.target[dst] {
		return false
	}
	return true
}
