package model

// NodeType is the closed set of entity kinds the comparator understands.
// Business (e-contract) kinds and technical (smart-contract) kinds share one
// enum because correspondence between them is the whole point of the engine.
type NodeType string

const (
	NodeParty           NodeType = "PARTY"
	NodeOrganization    NodeType = "ORGANIZATION"
	NodeFinancialAmount NodeType = "FINANCIAL_AMOUNT"
	NodeTemporal        NodeType = "TEMPORAL"
	NodeObligation      NodeType = "OBLIGATION"
	NodeCondition       NodeType = "CONDITION"
	NodeTerm            NodeType = "TERM"
	NodeDefinition      NodeType = "DEFINITION"
	NodeFunction        NodeType = "FUNCTION"
	NodeVariable        NodeType = "VARIABLE"
	NodeEvent           NodeType = "EVENT"
	NodeModifier        NodeType = "MODIFIER"
	NodeParameter       NodeType = "PARAMETER"
	NodeStructMember    NodeType = "STRUCT_MEMBER"
)

var nodeTypes = map[NodeType]bool{
	NodeParty:           true,
	NodeOrganization:    true,
	NodeFinancialAmount: true,
	NodeTemporal:        true,
	NodeObligation:      true,
	NodeCondition:       true,
	NodeTerm:            true,
	NodeDefinition:      true,
	NodeFunction:        true,
	NodeVariable:        true,
	NodeEvent:           true,
	NodeModifier:        true,
	NodeParameter:       true,
	NodeStructMember:    true,
}

// Valid reports whether t is a member of the closed enum.
func (t NodeType) Valid() bool {
	return nodeTypes[t]
}

// Provenance records where a node came from in its source artifact.
type Provenance struct {
	Source string `json:"source,omitempty"` // producing file or pipeline
	Span   string `json:"span,omitempty"`   // text span or AST path
	Line   int    `json:"line,omitempty"`
}

type Node struct {
	ID         string                 `json:"id"`
	Type       NodeType               `json:"type"`
	Label      string                 `json:"label"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Provenance Provenance             `json:"provenance,omitempty"`
}

// Attr returns a string attribute, or "" when absent or non-string.
func (n *Node) Attr(key string) string {
	if n.Attributes == nil {
		return ""
	}
	if v, ok := n.Attributes[key].(string); ok {
		return v
	}
	return ""
}
