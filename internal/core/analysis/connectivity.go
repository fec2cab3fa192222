package analysis

import (
	"sort"

	"github.com/chainscribe/concord/internal/core/model"
)

// Components returns the connected components of the graph treated as
// undirected, each component sorted by node ID and components ordered by
// their first member. Deterministic for reproducible diagnostics.
func Components(g *model.Graph) [][]string {
	visited := make(map[string]bool)
	var components [][]string

	for _, n := range g.Nodes() {
		if visited[n.ID] {
			continue
		}
		var component []string
		stack := []string{n.ID}
		visited[n.ID] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, u)
			for _, v := range g.Neighbors(u) {
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// IsolatedNodes counts nodes with no edges in either direction. A high
// isolated count on the technical side usually means the producing parser
// dropped references, which degrades relationship matching.
func IsolatedNodes(g *model.Graph) int {
	count := 0
	for _, n := range g.Nodes() {
		if len(g.Neighbors(n.ID)) == 0 {
			count++
		}
	}
	return count
}
