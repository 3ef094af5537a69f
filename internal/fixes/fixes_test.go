package fixes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/fixes"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

const file = "t.demo"

func pos(offset int) ir.Position { return ir.Position{File: file, Offset: offset} }
func span(offset int) ir.Span    { return ir.Span{File: file, Start: offset, End: offset} }

func newContext(t *testing.T) fixes.Context {
	t.Helper()
	plat := fixture.NewPlatform()
	comp := fixture.NewCompilation().WithRootException(plat.Exception)
	exceptions := classify.NewExceptionClassifier(facade.New(comp))
	return fixes.Context{Model: fixture.NewModel(), Exceptions: exceptions}
}

func TestForLooksUpByDiagnosticID(t *testing.T) {
	c := newContext(t)
	_, ok := fixes.For(c, ir.Diagnostic{ID: "DISP001"})
	assert.True(t, ok)

	_, ok = fixes.For(c, ir.Diagnostic{ID: "DISP999"})
	assert.False(t, ok, "an id with no registered fix must not be found")
}

func TestDISP001FixWrapsLocalInScopedAcquisition(t *testing.T) {
	decl := fixture.NewNode(ir.NodeLocalDeclaration, pos(10))
	use := fixture.NewNode(ir.NodeInvocation, pos(20))
	block := fixture.NewNode(ir.NodeBlock, pos(0), decl, use)
	doc := ir.Document{Path: file, Root: block}

	fix, ok := fixes.For(newContext(t), ir.Diagnostic{ID: "DISP001"})
	require.True(t, ok)

	out := fix.Apply(doc, ir.Diagnostic{ID: "DISP001", Location: span(10)})
	require.Len(t, out.Root.Children(), 1)
	assert.Equal(t, ir.NodeScopedAcquisition, out.Root.Children()[0].Kind())
}

func TestDISP003FixGuardsTheDisposeCall(t *testing.T) {
	call := fixture.NewNode(ir.NodeInvocation, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), call)
	doc := ir.Document{Path: file, Root: block}

	fix, ok := fixes.For(newContext(t), ir.Diagnostic{ID: "DISP003"})
	require.True(t, ok)

	out := fix.Apply(doc, ir.Diagnostic{ID: "DISP003", Location: span(10)})
	assert.Contains(t, ir.Comments(out.Root), "guarded: null-conditional, safe to call after disposal")
}

// TestDISP007FixResolvesFromFieldAnchorToTypeDeclaration exercises the
// ancestor-walking `resolve` helper: the diagnostic anchors at a field
// symbol's span (nested inside the type declaration), but
// AddProtocolImplementation needs the NodeTypeDeclaration itself.
func TestDISP007FixResolvesFromFieldAnchorToTypeDeclaration(t *testing.T) {
	fieldDecl := fixture.NewNode(ir.NodeIdentifier, pos(15))
	typeDecl := fixture.NewNode(ir.NodeTypeDeclaration, pos(0), fieldDecl)
	doc := ir.Document{Path: file, Root: typeDecl}

	fix, ok := fixes.For(newContext(t), ir.Diagnostic{ID: "DISP007"})
	require.True(t, ok)

	out := fix.Apply(doc, ir.Diagnostic{ID: "DISP007", Location: span(15), MessageArgs: []string{"resource"}})
	require.Len(t, out.Root.Children(), 2, "the new Dispose method is appended alongside the existing field")
	assert.Equal(t, ir.NodeMethodDeclaration, out.Root.Children()[1].Kind())
}

func TestDISP018FixResolvesEnclosingBlockAndIndex(t *testing.T) {
	assign1 := fixture.NewNode(ir.NodeAssignment, pos(10))
	assign2 := fixture.NewNode(ir.NodeAssignment, pos(20))
	risky := fixture.NewNode(ir.NodeObjectCreation, pos(30))
	body := fixture.NewNode(ir.NodeBlock, pos(0), assign1, assign2, risky)
	doc := ir.Document{Path: file, Root: body}

	fix, ok := fixes.For(newContext(t), ir.Diagnostic{ID: "DISP018"})
	require.True(t, ok)

	// Anchored at the second assignment: the recovery should wrap
	// everything after it (just `risky`) in a try/catch, leaving the two
	// assignments outside.
	out := fix.Apply(doc, ir.Diagnostic{ID: "DISP018", Location: span(20)})
	children := out.Root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, ir.NodeTry, children[2].Kind())
}

func TestFixApplyIsNoopOnUnrelatedDiagnostic(t *testing.T) {
	decl := fixture.NewNode(ir.NodeLocalDeclaration, pos(10))
	block := fixture.NewNode(ir.NodeBlock, pos(0), decl)
	doc := ir.Document{Path: file, Root: block}

	fix, ok := fixes.For(newContext(t), ir.Diagnostic{ID: "DISP001"})
	require.True(t, ok)

	out := fix.Apply(doc, ir.Diagnostic{ID: "DISP004", Location: span(10)})
	assert.Same(t, block, out.Root, "Fix.Apply is a no-op when the diagnostic id doesn't match the fix")
}
