package model

// GraphDocument is the JSON interchange form of a graph, used by the CLI,
// the HTTP API and the store. Building a document validates every node and
// edge and returns a sealed graph.
type GraphDocument struct {
	Kind  GraphKind `json:"kind"`
	Nodes []Node    `json:"nodes"`
	Edges []Edge    `json:"edges"`
}

// Build constructs and seals a graph from the document. Any structural
// violation aborts the build; the comparator never repairs producer bugs.
func (d GraphDocument) Build() (*Graph, error) {
	g := NewGraph(d.Kind)
	for _, n := range d.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	g.Seal()
	return g, nil
}

// NewDocument snapshots a graph into its interchange form.
func NewDocument(g *Graph) GraphDocument {
	d := GraphDocument{Kind: g.Kind()}
	for _, n := range g.Nodes() {
		d.Nodes = append(d.Nodes, *n)
	}
	for _, e := range g.Edges() {
		d.Edges = append(d.Edges, *e)
	}
	return d
}
