package ir

// Position locates a node in source text.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Span is a half-open [Start, End) range of byte offsets in File.
type Span struct {
	File  string
	Start int
	End   int
}

// Trivia is a leading or trailing piece of whitespace or comment text
// attached to a SyntaxNode. Rewrites must preserve every Trivia with
// TriviaComment kind somewhere in the resulting tree (§8 trivia
// preservation property).
type Trivia struct {
	Kind TriviaKind
	Text string
}

// SyntaxNode is a read-only position in source with attached trivia.
// The core never constructs these from raw text — a host supplies them.
// Traversal is read-only; rewrites build new trees rather than mutating
// nodes reachable through this interface (see ir/fixture for the one
// concrete, buildable tree implementation used by this repository).
type SyntaxNode interface {
	Kind() NodeKind
	Parent() SyntaxNode
	Children() []SyntaxNode
	Pos() Position

	LeadingTrivia() []Trivia
	TrailingTrivia() []Trivia
}

// Comments returns every comment Trivia attached to node and its
// descendants, in document order. Tests use this to verify trivia
// preservation across a rewrite.
func Comments(node SyntaxNode) []string {
	if node == nil {
		return nil
	}
	var out []string
	collect := func(trivia []Trivia) {
		for _, t := range trivia {
			if t.Kind == TriviaComment {
				out = append(out, t.Text)
			}
		}
	}
	collect(node.LeadingTrivia())
	collect(node.TrailingTrivia())
	for _, child := range node.Children() {
		out = append(out, Comments(child)...)
	}
	return out
}

// Ancestors yields node's ancestors, innermost first, not including node
// itself.
func Ancestors(node SyntaxNode) []SyntaxNode {
	var out []SyntaxNode
	for p := node.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Descendants yields every node reachable from node (node itself
// excluded), in document order.
func Descendants(node SyntaxNode) []SyntaxNode {
	var out []SyntaxNode
	for _, child := range node.Children() {
		out = append(out, child)
		out = append(out, Descendants(child)...)
	}
	return out
}
