package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rewrite"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

const file = "t.demo"

func pos(offset int) ir.Position { return ir.Position{File: file, Offset: offset} }

func span(offset int) ir.Span { return ir.Span{File: file, Start: offset, End: offset} }

func TestWrapInScopedAcquisition(t *testing.T) {
	decl := fixture.NewNode(ir.NodeLocalDeclaration, pos(10)).
		WithTrivia([]ir.Trivia{fixture.Comment("acquire")}, nil)
	use := fixture.NewNode(ir.NodeInvocation, pos(20))
	block := fixture.NewNode(ir.NodeBlock, pos(0), decl, use)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.WrapInScopedAcquisition(doc, span(10))

	root := out.Root
	require.Len(t, root.Children(), 1, "declaration and its trailing statement fold into one scoped acquisition")
	acquisition := root.Children()[0]
	assert.Equal(t, ir.NodeScopedAcquisition, acquisition.Kind())
	assert.Contains(t, ir.Comments(root), "acquire", "the declaration's leading comment survives the rewrite")
}

func TestWrapInScopedAcquisitionIsIdempotent(t *testing.T) {
	decl := fixture.NewNode(ir.NodeLocalDeclaration, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), decl)
	doc := ir.Document{Path: file, Root: block}

	once := rewrite.WrapInScopedAcquisition(doc, span(10))
	twice := rewrite.WrapInScopedAcquisition(once, span(10))

	assert.Same(t, once.Root, twice.Root, "re-applying to an already-wrapped local is a no-op")
}

func TestWrapInScopedAcquisitionMismatchIsNoop(t *testing.T) {
	other := fixture.NewNode(ir.NodeInvocation, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), other)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.WrapInScopedAcquisition(doc, span(10))
	assert.Same(t, block, out.Root)
}

func TestBareRethrowPreservesTrivia(t *testing.T) {
	caught := fixture.NewNode(ir.NodeIdentifier, pos(12))
	throwNode := fixture.NewNode(ir.NodeThrow, pos(10), caught).
		WithTrivia([]ir.Trivia{fixture.Comment("rethrow the original")}, []ir.Trivia{fixture.Comment("trailing")})
	block := fixture.NewNode(ir.NodeBlock, pos(0), throwNode)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.BareRethrow(doc, span(10))

	bare := out.Root.Children()[0]
	assert.Empty(t, bare.Children(), "the rethrown expression is dropped")
	assert.ElementsMatch(t, []string{"rethrow the original", "trailing"}, ir.Comments(out.Root))
}

func TestBareRethrowMismatchIsNoop(t *testing.T) {
	alreadyBare := fixture.NewNode(ir.NodeThrow, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), alreadyBare)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.BareRethrow(doc, span(10))
	assert.Same(t, block, out.Root, "a throw with no child expression is already bare")
}

func TestGuardWithNullConditional(t *testing.T) {
	invocation := fixture.NewNode(ir.NodeInvocation, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), invocation)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.GuardWithNullConditional(doc, span(10))

	assert.Contains(t, ir.Comments(out.Root), "guarded: null-conditional, safe to call after disposal")
}

func TestGuardWithNullConditionalMismatchIsNoop(t *testing.T) {
	notACall := fixture.NewNode(ir.NodeIdentifier, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), notACall)
	doc := ir.Document{Path: file, Root: block}

	out := rewrite.GuardWithNullConditional(doc, span(10))
	assert.Same(t, block, out.Root)
}
