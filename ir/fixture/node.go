// Package fixture is a small, hand-buildable reference implementation of
// the ir package's interfaces. It exists because the real parser,
// resolver, and syntax tree are out of scope (spec §1) — every test and
// the demo command in this repository builds an in-memory Compilation
// with this package instead of parsing real source text.
package fixture

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Node is the one concrete ir.SyntaxNode implementation in this
// repository. It is built bottom-up: children are constructed first,
// then NewNode wires their Parent pointer to the new node.
type Node struct {
	kind     ir.NodeKind
	pos      ir.Position
	leading  []ir.Trivia
	trailing []ir.Trivia
	parent   *Node
	children []*Node
}

// NewNode builds a Node of the given kind at pos, with the given
// children (whose Parent is set to the returned node).
func NewNode(kind ir.NodeKind, pos ir.Position, children ...*Node) *Node {
	n := &Node{kind: kind, pos: pos, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// WithTrivia returns n with leading/trailing trivia set, for chaining
// after NewNode.
func (n *Node) WithTrivia(leading, trailing []ir.Trivia) *Node {
	n.leading = leading
	n.trailing = trailing
	return n
}

// Comment is a convenience constructor for a single comment Trivia.
func Comment(text string) ir.Trivia { return ir.Trivia{Kind: ir.TriviaComment, Text: text} }

// Whitespace is a convenience constructor for a single whitespace Trivia.
func Whitespace(text string) ir.Trivia { return ir.Trivia{Kind: ir.TriviaWhitespace, Text: text} }

func (n *Node) Kind() ir.NodeKind { return n.kind }
func (n *Node) Pos() ir.Position  { return n.pos }

func (n *Node) Parent() ir.SyntaxNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []ir.SyntaxNode {
	out := make([]ir.SyntaxNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) LeadingTrivia() []ir.Trivia  { return n.leading }
func (n *Node) TrailingTrivia() []ir.Trivia { return n.trailing }

// ConcreteChildren returns the typed child slice, for rewrite code that
// needs to splice concrete *Node children rather than the interface
// view Children() returns.
func (n *Node) ConcreteChildren() []*Node { return n.children }

// WithChildren returns a shallow copy of n with its children replaced;
// used by the rewrite engine to build a new tree without mutating n.
func (n *Node) WithChildren(children ...*Node) *Node {
	clone := NewNode(n.kind, n.pos, children...)
	clone.leading = n.leading
	clone.trailing = n.trailing
	return clone
}
