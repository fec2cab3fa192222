package match

import (
	"github.com/cockroachdb/errors"

	"github.com/chainscribe/concord/internal/core/model"
)

// BridgingTable maps an edge type to the set of edge types considered
// valid realizations of it. It is the authoritative semantic-gap closer
// between the business and technical edge vocabularies.
type BridgingTable map[model.EdgeType]map[model.EdgeType]bool

// DefaultBridging returns the built-in table: identity bridges for every
// directly named kind, EMITS realizing the business relationship kinds an
// event may encode, and the structural implementation edges realizing
// structural business relationships.
func DefaultBridging() BridgingTable {
	t := make(BridgingTable)
	add := func(from model.EdgeType, to ...model.EdgeType) {
		if t[from] == nil {
			t[from] = make(map[model.EdgeType]bool)
		}
		for _, e := range to {
			t[from][e] = true
		}
	}
	for et := range edgeTypesAll() {
		add(et, et)
	}
	add(model.EdgeEmits,
		model.EdgeObligationAssignment,
		model.EdgeTemporalReference,
		model.EdgePartyRelationship,
		model.EdgeResponsibility,
	)
	add(model.EdgeCalls, model.EdgeDependency, model.EdgeHierarchy)
	add(model.EdgeModifies, model.EdgeDependency, model.EdgeHierarchy)
	add(model.EdgeDeclares, model.EdgeDependency, model.EdgeHierarchy)
	return t
}

func edgeTypesAll() map[model.EdgeType]bool {
	return map[model.EdgeType]bool{
		model.EdgeDependency: true, model.EdgeHierarchy: true,
		model.EdgeReference: true, model.EdgeImplication: true,
		model.EdgeObligationAssignment: true, model.EdgeTemporalReference: true,
		model.EdgePartyRelationship: true, model.EdgeResponsibility: true,
		model.EdgeEmits: true, model.EdgeCalls: true,
		model.EdgeModifies: true, model.EdgeDeclares: true,
	}
}

// Override replaces the bridging sets named in cfg while keeping identity
// bridges intact, so a partial override cannot break self-comparison.
func (t BridgingTable) Override(cfg map[string][]string) error {
	for from, tos := range cfg {
		ft := model.EdgeType(from)
		if !ft.Valid() {
			return errors.Newf("bridging override: unknown edge type %q", from)
		}
		set := map[model.EdgeType]bool{ft: true}
		for _, to := range tos {
			tt := model.EdgeType(to)
			if !tt.Valid() {
				return errors.Newf("bridging override for %q: unknown edge type %q", from, to)
			}
			set[tt] = true
		}
		t[ft] = set
	}
	return nil
}

// Bridges reports whether one of the two types names the other as a valid
// realization. The table is consulted in both directions because it is
// written technical-to-business but applied business-to-technical.
func (t BridgingTable) Bridges(a, b model.EdgeType) bool {
	return t[a][b] || t[b][a]
}

// RelationMatches is the relationship matcher's output with per-side
// matched-edge indexes for coverage computation.
type RelationMatches struct {
	Matches      []model.RelationshipMatch
	matchedLeft  map[string]bool
	matchedRight map[string]bool
}

func (r *RelationMatches) HasLeft(edgeID string) bool  { return r.matchedLeft[edgeID] }
func (r *RelationMatches) HasRight(edgeID string) bool { return r.matchedRight[edgeID] }

// RelationshipMatcher decides whether an edge in graph A is implemented by
// an edge in graph B, given the entity match set.
type RelationshipMatcher struct {
	Bridging BridgingTable
}

func NewRelationshipMatcher(bridging BridgingTable) *RelationshipMatcher {
	if bridging == nil {
		bridging = DefaultBridging()
	}
	return &RelationshipMatcher{Bridging: bridging}
}

// Match pairs edges across the two graphs. Realization is recognized in
// three tiers, strongest first, and only the strongest non-empty tier is
// reported for each left edge:
//
//  1. endpoint correspondence: both endpoints of eA are matched to the
//     endpoints of eB (either orientation) and the types bridge;
//  2. anchored realization: the types bridge, both eA endpoints have
//     matches in B, and at least one of those matched counterparts sits in
//     the one-hop neighborhood of eB. Business state is typically carried
//     by variables adjacent to the realizing function, not by the
//     function's own endpoints;
//  3. detached realization: the types bridge and both eA endpoints have
//     matches somewhere in B. Coarse documents model events implicitly, so
//     a realizing edge need not touch the matched state at all.
//
// Many technical edges may jointly implement one business edge; all edges
// of the winning tier are reported.
func (m *RelationshipMatcher) Match(a, b *model.Graph, entities *model.MatchSet) (*RelationMatches, error) {
	if !a.Sealed() || !b.Sealed() {
		return nil, errors.Wrap(model.ErrUnsealedGraph, "relationship matching")
	}

	out := &RelationMatches{
		matchedLeft:  make(map[string]bool),
		matchedRight: make(map[string]bool),
	}
	bEdges := b.Edges()

	for _, ea := range a.Edges() {
		var tier1, tier2, tier3 []*model.Edge
		endpointsMatched := entities.HasLeft(ea.SourceID) && entities.HasLeft(ea.TargetID)
		anchors := m.matchedCounterparts(entities, ea)

		for _, eb := range bEdges {
			if !m.Bridging.Bridges(ea.Type, eb.Type) {
				continue
			}
			if m.correspond(entities, ea, eb) {
				tier1 = append(tier1, eb)
				continue
			}
			// Tiers 2 and 3 exist for the granularity gap; an identical
			// edge type with non-corresponding endpoints is just a
			// different relationship.
			if ea.Type == eb.Type || !endpointsMatched {
				continue
			}
			if m.anchored(b, eb, anchors) {
				tier2 = append(tier2, eb)
			} else {
				tier3 = append(tier3, eb)
			}
		}

		winners := tier1
		if len(winners) == 0 {
			winners = tier2
		}
		if len(winners) == 0 {
			winners = tier3
		}
		for _, eb := range winners {
			out.Matches = append(out.Matches, model.RelationshipMatch{
				LeftEdgeID:  ea.ID,
				RightEdgeID: eb.ID,
				LeftType:    ea.Type,
				RightType:   eb.Type,
				Enforceable: enforceable(b, eb),
			})
			out.matchedLeft[ea.ID] = true
			out.matchedRight[eb.ID] = true
		}
	}

	return out, nil
}

func (m *RelationshipMatcher) correspond(entities *model.MatchSet, ea, eb *model.Edge) bool {
	straight := entities.Corresponds(ea.SourceID, eb.SourceID) &&
		entities.Corresponds(ea.TargetID, eb.TargetID)
	crossed := entities.Corresponds(ea.SourceID, eb.TargetID) &&
		entities.Corresponds(ea.TargetID, eb.SourceID)
	return straight || crossed
}

// matchedCounterparts collects the B-side node IDs that eA's endpoints are
// matched to.
func (m *RelationshipMatcher) matchedCounterparts(entities *model.MatchSet, ea *model.Edge) map[string]bool {
	anchors := make(map[string]bool)
	for _, mt := range entities.Matches {
		if mt.LeftNodeID == ea.SourceID || mt.LeftNodeID == ea.TargetID {
			anchors[mt.RightNodeID] = true
		}
	}
	return anchors
}

func (m *RelationshipMatcher) anchored(b *model.Graph, eb *model.Edge, anchors map[string]bool) bool {
	if anchors[eb.SourceID] || anchors[eb.TargetID] {
		return true
	}
	for _, id := range b.Neighbors(eb.SourceID) {
		if anchors[id] {
			return true
		}
	}
	for _, id := range b.Neighbors(eb.TargetID) {
		if anchors[id] {
			return true
		}
	}
	return false
}

// enforceable reports whether the realizing edge is anchored on a FUNCTION
// that carries an access-control modifier. An event alone is observable
// but not enforceable.
func enforceable(b *model.Graph, eb *model.Edge) bool {
	for _, id := range []string{eb.SourceID, eb.TargetID} {
		n := b.Node(id)
		if n == nil || n.Type != model.NodeFunction {
			continue
		}
		for _, nb := range b.Neighbors(id) {
			if adj := b.Node(nb); adj != nil && adj.Type == model.NodeModifier {
				return true
			}
		}
	}
	return false
}

// UnmatchedRelationships lists g's edges that took no part in any match,
// with endpoint labels for downstream diagnosis.
func UnmatchedRelationships(g *model.Graph, has func(string) bool) []model.UnmatchedRelationship {
	var out []model.UnmatchedRelationship
	for _, e := range g.Edges() {
		if has(e.ID) {
			continue
		}
		u := model.UnmatchedRelationship{EdgeID: e.ID, Type: e.Type}
		if src := g.Node(e.SourceID); src != nil {
			u.SourceLabel = src.Label
		}
		if dst := g.Node(e.TargetID); dst != nil {
			u.TargetLabel = dst.Label
		}
		out = append(out, u)
	}
	return out
}
