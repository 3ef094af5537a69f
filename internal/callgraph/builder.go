package callgraph

import (
	"context"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// Builder constructs a Graph from an ir.Compilation.
type Builder struct {
	compilation ir.Compilation
}

// NewBuilder binds a Builder to compilation.
func NewBuilder(compilation ir.Compilation) *Builder {
	return &Builder{compilation: compilation}
}

// Build walks every syntax tree in the compilation, finds every method
// declaration (ordinary methods, constructors, and local nested
// functions — each is its own node), and records an edge for every
// invocation or object creation whose innermost enclosing method
// declaration is that node. Lambda bodies have no declaration boundary
// of their own, so calls inside them are attributed to whichever method
// declaration encloses the lambda (§4.4 "lambdas only as edges into the
// enclosing method").
//
// ctx is checked between symbols (§5 cancellation point (b)); on
// cancellation, Build returns the graph accumulated so far.
func (b *Builder) Build(ctx context.Context) *Graph {
	g := newGraph()
	for _, tree := range b.compilation.SyntaxTrees() {
		model := b.compilation.SemanticModel(tree)
		for _, decl := range methodDeclarations(tree.Root) {
			if ctx.Err() != nil {
				return g
			}
			owner, ok := model.SymbolFor(decl)
			if !ok {
				continue
			}
			method, ok := owner.(ir.Method)
			if !ok {
				continue
			}
			g.addNode(method)
			collectEdges(g, method, decl, model)
		}
	}
	return g
}

// BuildFor builds a graph containing only m and its direct callees,
// resolved from m's own body.
func BuildFor(m ir.Method, model ir.SemanticModel) *Graph {
	g := newGraph()
	g.addNode(m)
	body, ok := m.Body()
	if !ok {
		return g
	}
	collectEdges(g, m, body, model)
	return g
}

func methodDeclarations(root ir.SyntaxNode) []ir.SyntaxNode {
	var out []ir.SyntaxNode
	if root.Kind() == ir.NodeMethodDeclaration {
		out = append(out, root)
	}
	for _, child := range root.Children() {
		out = append(out, methodDeclarations(child)...)
	}
	return out
}

// collectEdges walks declOrBody's subtree looking for invocation/
// object-creation operations owned by method — i.e. whose nearest
// enclosing method-declaration node is declOrBody itself, not a nested
// local function declared within it. Nested method-declaration subtrees
// are pruned entirely: they are walked as their own node, by the outer
// Build loop (or not at all for BuildFor, which only cares about m's
// own direct callees).
func collectEdges(g *Graph, method ir.Method, declOrBody ir.SyntaxNode, model ir.SemanticModel) {
	for _, child := range declOrBody.Children() {
		if child.Kind() == ir.NodeMethodDeclaration {
			continue
		}
		if op, ok := model.OperationFor(child); ok {
			switch o := op.(type) {
			case *ir.InvocationOp:
				g.addEdge(method, symbolOf(o.Method))
			case *ir.ObjectCreationOp:
				g.addEdge(method, symbolOf(o.Constructor))
			}
		}
		collectEdges(g, method, child, model)
	}
}

func symbolOf(m ir.Method) ir.Symbol {
	if m == nil {
		return nil
	}
	return m
}
