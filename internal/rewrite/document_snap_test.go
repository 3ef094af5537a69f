package rewrite_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rewrite"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// dumpTree renders a SyntaxNode as an indented, comment-annotated text
// tree so a before/after pair can be pinned as a single readable
// snapshot — the closest thing to "print the document" this repository
// has, since the real pretty-printer is the host's job (§1).
func dumpTree(node ir.SyntaxNode, depth int) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(&b, "%s%s", indent, node.Kind())
	for _, t := range node.LeadingTrivia() {
		if t.Kind == ir.TriviaComment {
			fmt.Fprintf(&b, " /*leading: %s*/", t.Text)
		}
	}
	for _, t := range node.TrailingTrivia() {
		if t.Kind == ir.TriviaComment {
			fmt.Fprintf(&b, " /*trailing: %s*/", t.Text)
		}
	}
	b.WriteByte('\n')
	for _, c := range node.Children() {
		b.WriteString(dumpTree(c, depth+1))
	}
	return b.String()
}

// TestWrapInScopedAcquisitionSnapshot pins the §8 trivia-preservation
// property for "wrap in scoped acquisition" directly: the before and
// after document trees are rendered and snapshotted side by side, so
// any future change that drops or duplicates the declaration's leading
// comment shows up as a snapshot diff instead of a looser assertion.
func TestWrapInScopedAcquisitionSnapshot(t *testing.T) {
	decl := fixture.NewNode(ir.NodeLocalDeclaration, pos(10)).
		WithTrivia([]ir.Trivia{fixture.Comment("acquire the handle")}, nil)
	use := fixture.NewNode(ir.NodeInvocation, pos(20))
	block := fixture.NewNode(ir.NodeBlock, pos(0), decl, use)
	before := ir.Document{Path: file, Root: block}

	after := rewrite.WrapInScopedAcquisition(before, span(10))

	snaps.MatchSnapshot(t, "before:\n"+dumpTree(before.Root, 0)+"\nafter:\n"+dumpTree(after.Root, 0))
}

// TestInsertFinalizerSuppressionSnapshot pins the trailing-comment
// reattachment `InsertFinalizerSuppression` performs: the comment that
// trailed the previous last statement must end up trailing the newly
// appended suppression call instead of being dropped.
func TestInsertFinalizerSuppressionSnapshot(t *testing.T) {
	disposeField := fixture.NewNode(ir.NodeInvocation, pos(10)).
		WithTrivia(nil, []ir.Trivia{fixture.Comment("dispose the inner handle")})
	body := fixture.NewNode(ir.NodeBlock, pos(0), disposeField)
	before := ir.Document{Path: file, Root: body}

	after := rewrite.InsertFinalizerSuppression(before, span(0))

	snaps.MatchSnapshot(t, "before:\n"+dumpTree(before.Root, 0)+"\nafter:\n"+dumpTree(after.Root, 0))
}

// TestReorderCatchesBySpecificitySnapshot pins the §8 catch-specificity
// property: a general catch declared before a specific one must sort
// after it, with every clause's own trivia traveling with it.
func TestReorderCatchesBySpecificitySnapshot(t *testing.T) {
	plat := fixture.NewPlatform()
	argErr := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception).WithQualifiedName("System.ArgumentException")
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	generalCatch := fixture.NewNode(ir.NodeCatchClause, pos(20)).
		WithTrivia([]ir.Trivia{fixture.Comment("catches everything")}, nil)
	specificCatch := fixture.NewNode(ir.NodeCatchClause, pos(30)).
		WithTrivia([]ir.Trivia{fixture.Comment("catches ArgumentException")}, nil)
	tryBlock := fixture.NewNode(ir.NodeBlock, pos(10))
	tryNode := fixture.NewNode(ir.NodeTry, pos(0), tryBlock, generalCatch, specificCatch)

	model := fixture.NewModel()
	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: nil, Syntax: generalCatch},
		{CaughtType: argErr, Syntax: specificCatch},
	}, nil)
	model.BindOperation(tryNode, tryOp)

	comp := fixture.NewCompilation().
		RegisterType(service).
		RegisterType(argErr).
		WithRootException(plat.Exception).
		WithDisposableInterfaces(plat.IDisposable, plat.IAsyncDisposable).
		WithFinalizerSuppression(plat.SuppressFinalize)

	classifier := classify.NewExceptionClassifier(facade.New(comp))
	before := ir.Document{Path: file, Root: tryNode}

	after := rewrite.ReorderCatchesBySpecificity(before, span(0), model, classifier)

	snaps.MatchSnapshot(t, "before:\n"+dumpTree(before.Root, 0)+"\nafter:\n"+dumpTree(after.Root, 0))
}
