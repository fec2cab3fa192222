package store

const (
	saveGraphQuery = `
		MERGE (g:Graph {uuid: $uuid})
		SET g.kind = $kind,
			g.created_at = $created_at,
			g.node_count = $node_count,
			g.edge_count = $edge_count
		RETURN g.uuid AS uuid
	`

	saveNodeQuery = `
		MATCH (g:Graph {uuid: $graph_uuid})
		MERGE (n:GraphNode {uuid: $uuid, graph_uuid: $graph_uuid})
		SET n.type = $type,
			n.label = $label,
			n.attributes = $attributes,
			n.prov_source = $prov_source,
			n.prov_span = $prov_span,
			n.prov_line = $prov_line
		MERGE (g)-[:CONTAINS]->(n)
		RETURN n.uuid AS uuid
	`

	saveEdgeQuery = `
		MATCH (source:GraphNode {uuid: $source_uuid, graph_uuid: $graph_uuid})
		MATCH (target:GraphNode {uuid: $target_uuid, graph_uuid: $graph_uuid})
		MERGE (source)-[e:RELATES {uuid: $uuid, graph_uuid: $graph_uuid}]->(target)
		SET e.type = $type,
			e.confidence = $confidence,
			e.description = $description
		RETURN e.uuid AS uuid
	`

	getGraphQuery = `
		MATCH (g:Graph {uuid: $uuid})
		RETURN g.kind AS kind
	`

	getGraphNodesQuery = `
		MATCH (:Graph {uuid: $uuid})-[:CONTAINS]->(n:GraphNode)
		RETURN n.uuid AS uuid, n.type AS type, n.label AS label,
			n.attributes AS attributes, n.prov_source AS prov_source,
			n.prov_span AS prov_span, n.prov_line AS prov_line
		ORDER BY n.uuid
	`

	getGraphEdgesQuery = `
		MATCH (source:GraphNode {graph_uuid: $uuid})-[e:RELATES {graph_uuid: $uuid}]->(target:GraphNode)
		RETURN e.uuid AS uuid, e.type AS type, source.uuid AS source_uuid,
			target.uuid AS target_uuid, e.confidence AS confidence,
			e.description AS description
		ORDER BY e.uuid
	`

	saveComparisonQuery = `
		MATCH (a:Graph {uuid: $graph_a_uuid})
		MATCH (b:Graph {uuid: $graph_b_uuid})
		MERGE (c:Comparison {uuid: $uuid})
		SET c.created_at = $created_at,
			c.entity_preservation_pct = $entity_preservation_pct,
			c.relationship_preservation_pct = $relationship_preservation_pct,
			c.overall_similarity = $overall_similarity,
			c.coverage_score = $coverage_score,
			c.compliance_score = $compliance_score,
			c.risk_score = $risk_score,
			c.imbalance_ratio = $imbalance_ratio,
			c.result = $result
		MERGE (c)-[:COMPARES_SOURCE]->(a)
		MERGE (c)-[:COMPARES_TARGET]->(b)
		RETURN c.uuid AS uuid
	`

	getComparisonQuery = `
		MATCH (c:Comparison {uuid: $uuid})
		RETURN c.result AS result
	`
)
