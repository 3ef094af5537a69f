// Package callgraph implements CallGraphBuilder (§4.4): a directed
// graph of symbol -> called symbols, built by walking method bodies,
// constructor bodies, and local nested function bodies; lambda bodies
// contribute edges into their enclosing method rather than a node of
// their own.
package callgraph

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Edge is one call-site relationship. Edges are intentionally not
// deduplicated (§3 invariant): the same call expression executed twice
// lexically produces two edges, though no query in this package
// depends on that multiplicity.
type Edge struct {
	From ir.Symbol
	To   ir.Symbol
}

// Graph is the result of a build. Nodes are deduplicated by symbol
// identity; Edges preserve multiplicity.
type Graph struct {
	Edges     []Edge
	nodes     map[ir.Symbol]bool
	adjacency map[ir.Symbol][]ir.Symbol
	reverse   map[ir.Symbol][]ir.Symbol
}

func newGraph() *Graph {
	return &Graph{
		nodes:     make(map[ir.Symbol]bool),
		adjacency: make(map[ir.Symbol][]ir.Symbol),
		reverse:   make(map[ir.Symbol][]ir.Symbol),
	}
}

func (g *Graph) addNode(s ir.Symbol) {
	if s == nil {
		return
	}
	g.nodes[s] = true
}

func (g *Graph) addEdge(from, to ir.Symbol) {
	if from == nil || to == nil {
		// Input defect: unresolved symbol. Skip the edge, don't fail
		// the build (§4.4 "Failure").
		return
	}
	g.Edges = append(g.Edges, Edge{From: from, To: to})
	g.addNode(from)
	g.addNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
	g.reverse[to] = append(g.reverse[to], from)
}

// Nodes returns every distinct symbol in the graph.
func (g *Graph) Nodes() []ir.Symbol {
	out := make([]ir.Symbol, 0, len(g.nodes))
	for s := range g.nodes {
		out = append(out, s)
	}
	return out
}

// DirectCallees returns m's immediate callees, with multiplicity.
func (g *Graph) DirectCallees(m ir.Symbol) []ir.Symbol { return g.adjacency[m] }

// DirectCallers returns m's immediate callers, with multiplicity.
func (g *Graph) DirectCallers(m ir.Symbol) []ir.Symbol { return g.reverse[m] }

// TransitiveCallees walks callee edges from m up to maxDepth hops,
// ignoring cycles via a visited set. Depth 0 excludes m itself from the
// result (§4.4).
func TransitiveCallees(g *Graph, m ir.Symbol, maxDepth int) []ir.Symbol {
	return traverse(g.adjacency, m, maxDepth)
}

// TransitiveCallers is the reverse-edge analogue of TransitiveCallees.
func TransitiveCallers(g *Graph, m ir.Symbol, maxDepth int) []ir.Symbol {
	return traverse(g.reverse, m, maxDepth)
}

func traverse(adj map[ir.Symbol][]ir.Symbol, start ir.Symbol, maxDepth int) []ir.Symbol {
	if maxDepth <= 0 || start == nil {
		return nil
	}
	visited := map[ir.Symbol]bool{start: true}
	var out []ir.Symbol
	frontier := []ir.Symbol{start}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []ir.Symbol
		for _, node := range frontier {
			for _, callee := range adj[node] {
				if visited[callee] {
					continue
				}
				visited[callee] = true
				out = append(out, callee)
				next = append(next, callee)
			}
		}
		frontier = next
	}
	return out
}
