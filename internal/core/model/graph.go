package model

import (
	"sort"

	"github.com/cockroachdb/errors"
)

type GraphKind string

const (
	KindEContract     GraphKind = "E_CONTRACT"
	KindSmartContract GraphKind = "SMART_CONTRACT"
)

// Graph is a directed typed multigraph. It is mutable during construction
// and becomes permanently read-only after Seal, which makes it safe to
// share across concurrent comparisons without locking.
type Graph struct {
	kind   GraphKind
	nodes  map[string]*Node
	edges  map[string]*Edge
	out    map[string][]*Edge
	in     map[string][]*Edge
	sealed bool
}

func NewGraph(kind GraphKind) *Graph {
	return &Graph{
		kind:  kind,
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
}

func (g *Graph) Kind() GraphKind { return g.kind }
func (g *Graph) Sealed() bool    { return g.sealed }

// AddNode inserts a node. Node IDs are unique within one graph and types
// are immutable after creation, so a duplicate ID or unknown type fails.
func (g *Graph) AddNode(n Node) error {
	if g.sealed {
		return errors.Wrapf(ErrGraphSealed, "add node %q", n.ID)
	}
	if n.ID == "" {
		return errors.Wrap(ErrStructuralViolation, "node with empty id")
	}
	if !n.Type.Valid() {
		return errors.Wrapf(ErrStructuralViolation, "node %q has unknown type %q", n.ID, n.Type)
	}
	if _, exists := g.nodes[n.ID]; exists {
		return errors.Wrapf(ErrStructuralViolation, "duplicate node id %q", n.ID)
	}
	node := n
	g.nodes[n.ID] = &node
	return nil
}

// AddEdge inserts an edge after validating that both endpoints exist and
// that their node types are legal for the edge type.
func (g *Graph) AddEdge(e Edge) error {
	if g.sealed {
		return errors.Wrapf(ErrGraphSealed, "add edge %q", e.ID)
	}
	if e.ID == "" {
		return errors.Wrap(ErrStructuralViolation, "edge with empty id")
	}
	if !e.Type.Valid() {
		return errors.Wrapf(ErrStructuralViolation, "edge %q has unknown type %q", e.ID, e.Type)
	}
	if _, exists := g.edges[e.ID]; exists {
		return errors.Wrapf(ErrStructuralViolation, "duplicate edge id %q", e.ID)
	}
	src, ok := g.nodes[e.SourceID]
	if !ok {
		return errors.Wrapf(ErrStructuralViolation, "edge %q: source node %q not in graph", e.ID, e.SourceID)
	}
	dst, ok := g.nodes[e.TargetID]
	if !ok {
		return errors.Wrapf(ErrStructuralViolation, "edge %q: target node %q not in graph", e.ID, e.TargetID)
	}
	if !e.Type.allowsEndpoints(src.Type, dst.Type) {
		return errors.Wrapf(ErrStructuralViolation,
			"edge %q: %s may not connect %s -> %s", e.ID, e.Type, src.Type, dst.Type)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return errors.Wrapf(ErrStructuralViolation, "edge %q: confidence %v outside [0,1]", e.ID, e.Confidence)
	}
	edge := e
	g.edges[e.ID] = &edge
	g.out[e.SourceID] = append(g.out[e.SourceID], &edge)
	g.in[e.TargetID] = append(g.in[e.TargetID], &edge)
	return nil
}

// Seal marks construction complete. Sealing is mandatory before the graph
// may be handed to any matcher.
func (g *Graph) Seal() {
	g.sealed = true
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) Node(id string) *Node { return g.nodes[id] }
func (g *Graph) Edge(id string) *Edge { return g.edges[id] }

// Nodes returns all nodes sorted by ID. Sorted iteration keeps every
// downstream algorithm deterministic.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges sorted by ID.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *Graph) NodesByType(t NodeType) []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) EdgesByType(t EdgeType) []*Edge {
	var out []*Edge
	for _, e := range g.Edges() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) OutEdges(nodeID string) []*Edge {
	return sortedEdges(g.out[nodeID])
}

func (g *Graph) InEdges(nodeID string) []*Edge {
	return sortedEdges(g.in[nodeID])
}

// Neighbors returns the IDs of nodes adjacent to nodeID in either
// direction, sorted and deduplicated.
func (g *Graph) Neighbors(nodeID string) []string {
	seen := make(map[string]bool)
	for _, e := range g.out[nodeID] {
		seen[e.TargetID] = true
	}
	for _, e := range g.in[nodeID] {
		seen[e.SourceID] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Touches reports whether a node with one of the given types sits at
// either end of the edge.
func (g *Graph) Touches(e *Edge, types ...NodeType) bool {
	for _, t := range types {
		if src := g.nodes[e.SourceID]; src != nil && src.Type == t {
			return true
		}
		if dst := g.nodes[e.TargetID]; dst != nil && dst.Type == t {
			return true
		}
	}
	return false
}

func sortedEdges(in []*Edge) []*Edge {
	out := make([]*Edge, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats summarizes a graph for diagnostics and report metadata.
type Stats struct {
	Nodes       int              `json:"nodes"`
	Edges       int              `json:"edges"`
	NodesByType map[NodeType]int `json:"nodes_by_type"`
	EdgesByType map[EdgeType]int `json:"edges_by_type"`
	Density     float64          `json:"density"`
}

func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:       len(g.nodes),
		Edges:       len(g.edges),
		NodesByType: make(map[NodeType]int),
		EdgesByType: make(map[EdgeType]int),
	}
	for _, n := range g.nodes {
		s.NodesByType[n.Type]++
	}
	for _, e := range g.edges {
		s.EdgesByType[e.Type]++
	}
	if s.Nodes > 1 {
		s.Density = float64(s.Edges) / float64(s.Nodes*(s.Nodes-1))
	}
	return s
}
