package model

// MatchBasis records what a node correspondence was accepted on.
type MatchBasis string

const (
	BasisExactLabel    MatchBasis = "EXACT_LABEL"
	BasisTypeSemantic  MatchBasis = "TYPE_COMPATIBLE_SEMANTIC"
	BasisTypeLexical   MatchBasis = "TYPE_COMPATIBLE_LEXICAL"
)

// Match pairs a node of graph A (left) with a node of graph B (right).
// One left node may match several right nodes when granularity is
// coarse-to-fine; the relation is many-valued, never a forced bijection.
type Match struct {
	LeftNodeID  string     `json:"left_node_id"`
	RightNodeID string     `json:"right_node_id"`
	Similarity  float64    `json:"similarity"`
	Basis       MatchBasis `json:"basis"`
}

// MatchSet is the entity matcher's output with lookup indexes. The Matches
// slice preserves the matcher's deterministic order.
type MatchSet struct {
	Matches []Match
	byLeft  map[string][]Match
	byRight map[string][]Match
}

func NewMatchSet(matches []Match) *MatchSet {
	ms := &MatchSet{
		Matches: matches,
		byLeft:  make(map[string][]Match),
		byRight: make(map[string][]Match),
	}
	for _, m := range matches {
		ms.byLeft[m.LeftNodeID] = append(ms.byLeft[m.LeftNodeID], m)
		ms.byRight[m.RightNodeID] = append(ms.byRight[m.RightNodeID], m)
	}
	return ms
}

func (ms *MatchSet) HasLeft(nodeID string) bool  { return len(ms.byLeft[nodeID]) > 0 }
func (ms *MatchSet) HasRight(nodeID string) bool { return len(ms.byRight[nodeID]) > 0 }

// Corresponds reports whether left and right are matched with each other.
func (ms *MatchSet) Corresponds(leftID, rightID string) bool {
	for _, m := range ms.byLeft[leftID] {
		if m.RightNodeID == rightID {
			return true
		}
	}
	return false
}

// RelationshipMatch pairs an edge of graph A with an edge of graph B that
// realizes it through the bridging table.
type RelationshipMatch struct {
	LeftEdgeID  string   `json:"left_edge_id"`
	RightEdgeID string   `json:"right_edge_id"`
	LeftType    EdgeType `json:"left_type"`
	RightType   EdgeType `json:"right_type"`
	// Enforceable is set when the realizing edge is anchored on a function
	// guarded by an access-control modifier, not merely an event.
	Enforceable bool `json:"enforceable"`
}

// UnmatchedEntity describes a node with no counterpart, for diagnosis.
type UnmatchedEntity struct {
	NodeID string   `json:"node_id"`
	Type   NodeType `json:"type"`
	Label  string   `json:"label"`
}

// UnmatchedRelationship carries both endpoint labels so a reader can tell
// what business meaning remained unimplemented.
type UnmatchedRelationship struct {
	EdgeID      string   `json:"edge_id"`
	Type        EdgeType `json:"type"`
	SourceLabel string   `json:"source_label"`
	TargetLabel string   `json:"target_label"`
}

// Coverage is one direction's fraction of matched elements.
type Coverage struct {
	Nodes float64 `json:"nodes"`
	Edges float64 `json:"edges"`
}

// ImbalanceWarning is diagnostic metadata, never a score penalty.
type ImbalanceWarning struct {
	Ratio     float64 `json:"ratio"`
	Threshold float64 `json:"threshold"`
}

// InconsistentScoreWarning flags an accuracy number the overall similarity
// does not independently support.
type InconsistentScoreWarning struct {
	Accuracy          float64 `json:"accuracy"`
	OverallSimilarity float64 `json:"overall_similarity"`
	Tolerance         float64 `json:"tolerance"`
}

// ComparisonResult aggregates everything one comparison produced. It is
// created per invocation, never mutated after return, and owned by the
// caller. JSON field names are the interchange contract with report
// writers and the GUI.
type ComparisonResult struct {
	EntityPreservationPct       float64                 `json:"entity_preservation_pct"`
	RelationshipPreservationPct float64                 `json:"relationship_preservation_pct"`
	OverallSimilarity           float64                 `json:"overall_similarity"`
	CoverageScore               float64                 `json:"coverage_score"`
	ComplianceScore             float64                 `json:"compliance_score"`
	RiskScore                   float64                 `json:"risk_score"`
	ImbalanceRatio              float64                 `json:"imbalance_ratio"`
	CoverageAtoB                Coverage                `json:"coverage_a_to_b"`
	CoverageBtoA                Coverage                `json:"coverage_b_to_a"`
	EntityMatches               []Match                 `json:"entity_matches"`
	RelationshipMatches         []RelationshipMatch     `json:"relationship_matches"`
	UnmatchedEntities           []UnmatchedEntity       `json:"unmatched_entities"`
	UnmatchedRelationships      []UnmatchedRelationship `json:"unmatched_relationships"`
	ImbalanceWarning            *ImbalanceWarning       `json:"imbalance_warning,omitempty"`
	StatsA                      Stats                   `json:"stats_a"`
	StatsB                      Stats                   `json:"stats_b"`
	ComponentsA                 int                     `json:"components_a"`
	ComponentsB                 int                     `json:"components_b"`
	IsolatedNodesA              int                     `json:"isolated_nodes_a"`
	IsolatedNodesB              int                     `json:"isolated_nodes_b"`
}
