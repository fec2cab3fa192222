package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/chainscribe/concord/internal/core/model"
)

// MemgraphStore persists graphs and comparison results in Memgraph over
// the Bolt protocol. Node attributes and full comparison results are
// stored as JSON strings since they carry nested values the property
// model does not accept.
type MemgraphStore struct {
	driver neo4j.DriverWithContext
	log    *zap.Logger
}

func NewMemgraphStore(uri, username, password string, log *zap.Logger) (*MemgraphStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "create memgraph driver")
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, errors.Wrap(err, "verify memgraph connectivity")
	}
	log.Info("connected to memgraph", zap.String("uri", uri))
	return &MemgraphStore{driver: driver, log: log}, nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, errors.Wrap(err, "execute query")
	}
	return *result, nil
}

// BuildIndices creates lookup indices. Failures are logged and skipped
// because the index may already exist.
func (s *MemgraphStore) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Graph(uuid);",
		"CREATE INDEX ON :GraphNode(uuid);",
		"CREATE INDEX ON :GraphNode(graph_uuid);",
		"CREATE INDEX ON :Comparison(uuid);",
	}
	for _, q := range queries {
		if _, err := s.execute(ctx, q, nil); err != nil {
			s.log.Warn("index creation failed", zap.String("query", q), zap.Error(err))
		}
	}
	return nil
}

// SaveGraph stores a graph document and returns its generated ID.
func (s *MemgraphStore) SaveGraph(ctx context.Context, doc model.GraphDocument) (string, error) {
	graphID := uuid.New().String()
	_, err := s.execute(ctx, saveGraphQuery, map[string]interface{}{
		"uuid":       graphID,
		"kind":       string(doc.Kind),
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"node_count": len(doc.Nodes),
		"edge_count": len(doc.Edges),
	})
	if err != nil {
		return "", errors.Wrap(err, "save graph")
	}

	for _, n := range doc.Nodes {
		attrs, err := json.Marshal(n.Attributes)
		if err != nil {
			return "", errors.Wrapf(err, "marshal attributes of node %s", n.ID)
		}
		_, err = s.execute(ctx, saveNodeQuery, map[string]interface{}{
			"graph_uuid":  graphID,
			"uuid":        n.ID,
			"type":        string(n.Type),
			"label":       n.Label,
			"attributes":  string(attrs),
			"prov_source": n.Provenance.Source,
			"prov_span":   n.Provenance.Span,
			"prov_line":   n.Provenance.Line,
		})
		if err != nil {
			return "", errors.Wrapf(err, "save node %s", n.ID)
		}
	}

	for _, e := range doc.Edges {
		_, err := s.execute(ctx, saveEdgeQuery, map[string]interface{}{
			"graph_uuid":  graphID,
			"uuid":        e.ID,
			"type":        string(e.Type),
			"source_uuid": e.SourceID,
			"target_uuid": e.TargetID,
			"confidence":  e.Confidence,
			"description": e.Description,
		})
		if err != nil {
			return "", errors.Wrapf(err, "save edge %s", e.ID)
		}
	}
	return graphID, nil
}

// LoadGraph reassembles a stored graph document.
func (s *MemgraphStore) LoadGraph(ctx context.Context, id string) (model.GraphDocument, error) {
	var doc model.GraphDocument

	res, err := s.execute(ctx, getGraphQuery, map[string]interface{}{"uuid": id})
	if err != nil {
		return doc, errors.Wrap(err, "load graph")
	}
	if len(res.Records) == 0 {
		return doc, errors.Newf("graph %s not found", id)
	}
	doc.Kind = model.GraphKind(recordString(res.Records[0], "kind"))

	nodes, err := s.execute(ctx, getGraphNodesQuery, map[string]interface{}{"uuid": id})
	if err != nil {
		return doc, errors.Wrap(err, "load graph nodes")
	}
	for _, rec := range nodes.Records {
		n := model.Node{
			ID:    recordString(rec, "uuid"),
			Type:  model.NodeType(recordString(rec, "type")),
			Label: recordString(rec, "label"),
			Provenance: model.Provenance{
				Source: recordString(rec, "prov_source"),
				Span:   recordString(rec, "prov_span"),
				Line:   int(recordInt(rec, "prov_line")),
			},
		}
		if raw := recordString(rec, "attributes"); raw != "" && raw != "null" {
			if err := json.Unmarshal([]byte(raw), &n.Attributes); err != nil {
				return doc, errors.Wrapf(err, "unmarshal attributes of node %s", n.ID)
			}
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	edges, err := s.execute(ctx, getGraphEdgesQuery, map[string]interface{}{"uuid": id})
	if err != nil {
		return doc, errors.Wrap(err, "load graph edges")
	}
	for _, rec := range edges.Records {
		doc.Edges = append(doc.Edges, model.Edge{
			ID:          recordString(rec, "uuid"),
			Type:        model.EdgeType(recordString(rec, "type")),
			SourceID:    recordString(rec, "source_uuid"),
			TargetID:    recordString(rec, "target_uuid"),
			Confidence:  recordFloat(rec, "confidence"),
			Description: recordString(rec, "description"),
		})
	}
	return doc, nil
}

// SaveComparison stores a result linked to the two graphs it compared.
func (s *MemgraphStore) SaveComparison(ctx context.Context, graphA, graphB string, result *model.ComparisonResult) (string, error) {
	if result == nil {
		return "", errors.New("save comparison: nil result")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrap(err, "marshal comparison result")
	}
	compID := uuid.New().String()
	res, err := s.execute(ctx, saveComparisonQuery, map[string]interface{}{
		"uuid":                          compID,
		"graph_a_uuid":                  graphA,
		"graph_b_uuid":                  graphB,
		"created_at":                    time.Now().UTC().Format(time.RFC3339),
		"entity_preservation_pct":       result.EntityPreservationPct,
		"relationship_preservation_pct": result.RelationshipPreservationPct,
		"overall_similarity":            result.OverallSimilarity,
		"coverage_score":                result.CoverageScore,
		"compliance_score":              result.ComplianceScore,
		"risk_score":                    result.RiskScore,
		"imbalance_ratio":               result.ImbalanceRatio,
		"result":                        string(payload),
	})
	if err != nil {
		return "", errors.Wrap(err, "save comparison")
	}
	if len(res.Records) == 0 {
		return "", errors.Newf("comparison not saved: graphs %s or %s not found", graphA, graphB)
	}
	return compID, nil
}

// LoadComparison returns a previously stored result.
func (s *MemgraphStore) LoadComparison(ctx context.Context, id string) (*model.ComparisonResult, error) {
	res, err := s.execute(ctx, getComparisonQuery, map[string]interface{}{"uuid": id})
	if err != nil {
		return nil, errors.Wrap(err, "load comparison")
	}
	if len(res.Records) == 0 {
		return nil, errors.Newf("comparison %s not found", id)
	}
	var result model.ComparisonResult
	if err := json.Unmarshal([]byte(recordString(res.Records[0], "result")), &result); err != nil {
		return nil, errors.Wrap(err, "unmarshal comparison result")
	}
	return &result, nil
}

func recordString(rec *neo4j.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func recordInt(rec *neo4j.Record, key string) int64 {
	if v, ok := rec.Get(key); ok {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return 0
}

func recordFloat(rec *neo4j.Record, key string) float64 {
	if v, ok := rec.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	}
	return 0
}
