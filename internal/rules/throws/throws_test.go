package throws_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/throws"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

const testFile = "throws_test.demo"

func testPos(offset int) ir.Position { return ir.Position{File: testFile, Offset: offset} }

func ids(diags []ir.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.ID
	}
	return out
}

// buildMethodCompilation wraps one method's block body (already bound
// into model) into a single-type, single-tree Compilation, the same
// shape internal/demo.Build uses for its own scenarios.
func buildMethodCompilation(plat *fixture.Platform, extraTypes []*fixture.Type, service *fixture.Type, method *fixture.MethodSymbol, model *fixture.Model) *fixture.Compilation {
	body, _ := method.Body()
	methodDecl := fixture.NewNode(ir.NodeMethodDeclaration, testPos(0), body.(*fixture.Node))
	model.BindSymbol(methodDecl, method)

	serviceDecl := fixture.NewNode(ir.NodeTypeDeclaration, testPos(0), methodDecl)
	model.BindType(serviceDecl, service)

	comp := fixture.NewCompilation().
		AddTree(testFile, serviceDecl, model).
		RegisterType(service).
		WithRootException(plat.Exception).
		WithDisposableInterfaces(plat.IDisposable, plat.IAsyncDisposable).
		WithFinalizerSuppression(plat.SuppressFinalize)
	for _, t := range extraTypes {
		comp.RegisterType(t)
	}
	return comp
}

// TestCatchOrderingRule_DuplicateCatch matches the THROWS014 half of
// CatchOrderingRule: two clauses declared for the exact same type,
// which the shadowing computation alone does not flag.
func TestCatchOrderingRule_DuplicateCatch(t *testing.T) {
	plat := fixture.NewPlatform()
	argErr := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception).WithQualifiedName("System.ArgumentException")
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	firstCatch := fixture.NewNode(ir.NodeCatchClause, testPos(20))
	secondCatch := fixture.NewNode(ir.NodeCatchClause, testPos(30))
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, firstCatch, secondCatch)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	model := fixture.NewModel()
	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: argErr, Syntax: firstCatch},
		{CaughtType: argErr, Syntax: secondCatch},
	}, nil)
	model.BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, []*fixture.Type{argErr}, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.CatchOrderingRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "THROWS014", result.Diagnostics[0].ID)
}

// TestRethrowAntiPatternRule_NamedRethrowLosesStackTrace matches §4.8's
// "rethrow anti-pattern" bullet: `throw caughtVar;` inside a catch.
func TestRethrowAntiPatternRule_NamedRethrowLosesStackTrace(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	caughtVar := fixture.NewSymbol(ir.SymbolLocal, "ex", plat.Exception)
	rethrowNode := fixture.NewNode(ir.NodeThrow, testPos(30))
	catchNode := fixture.NewNode(ir.NodeCatchClause, testPos(20), rethrowNode)
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, catchNode)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	rethrowOp := ir.NewThrowOp(ir.Common{Syntax: rethrowNode}, ir.NewLocalReferenceOp(ir.Common{}, caughtVar))
	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: plat.Exception, Variable: caughtVar, Body: []ir.Operation{rethrowOp}, Syntax: catchNode},
	}, nil)

	model := fixture.NewModel().BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.RethrowAntiPatternRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "THROWS006", result.Diagnostics[0].ID)
}

// TestEmptyOrRethrowCatchRule_EmptyCatchSwallowsException covers
// THROWS004: a catch body with no statements at all.
func TestEmptyOrRethrowCatchRule_EmptyCatchSwallowsException(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	catchNode := fixture.NewNode(ir.NodeCatchClause, testPos(20))
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, catchNode)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: plat.Exception, Body: nil, Syntax: catchNode},
	}, nil)
	model := fixture.NewModel().BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.EmptyOrRethrowCatchRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "THROWS004", result.Diagnostics[0].ID)
}

// TestEmptyOrRethrowCatchRule_RethrowOnlyCatchIsRedundant covers
// THROWS005: a catch whose only statement is a bare rethrow.
func TestEmptyOrRethrowCatchRule_RethrowOnlyCatchIsRedundant(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	bareRethrow := fixture.NewNode(ir.NodeThrow, testPos(30))
	catchNode := fixture.NewNode(ir.NodeCatchClause, testPos(20), bareRethrow)
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, catchNode)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	rethrowOp := ir.NewThrowOp(ir.Common{Syntax: bareRethrow}, nil)
	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: plat.Exception, Body: []ir.Operation{rethrowOp}, Syntax: catchNode},
	}, nil)
	model := fixture.NewModel().BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.EmptyOrRethrowCatchRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "THROWS005", result.Diagnostics[0].ID)
}

// TestBroadCatchRule_GeneralAndRootCatchesBothFlagged matches §8's
// "overly broad catch" bullet for both the type-less general catch and
// an explicit catch of the root exception type, neither carrying a
// when-filter.
func TestBroadCatchRule_GeneralAndRootCatchesBothFlagged(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	generalCatch := fixture.NewNode(ir.NodeCatchClause, testPos(20))
	rootCatch := fixture.NewNode(ir.NodeCatchClause, testPos(30))
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, generalCatch, rootCatch)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: nil, Syntax: generalCatch},
		{CaughtType: plat.Exception, Syntax: rootCatch},
	}, nil)
	model := fixture.NewModel().BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.BroadCatchRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	got := ids(result.Diagnostics)
	assert.Contains(t, got, "THROWS017")
	assert.Contains(t, got, "THROWS007")
}

// TestBroadCatchRule_WhenFilterSuppressesFinding checks that a
// when-filtered broad catch is never reported.
func TestBroadCatchRule_WhenFilterSuppressesFinding(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	rootCatch := fixture.NewNode(ir.NodeCatchClause, testPos(20))
	tryBlock := fixture.NewNode(ir.NodeBlock, testPos(10))
	tryNode := fixture.NewNode(ir.NodeTry, testPos(0), tryBlock, rootCatch)
	body := fixture.NewNode(ir.NodeBlock, testPos(0), tryNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: plat.Exception, HasFilter: true, Syntax: rootCatch},
	}, nil)
	model := fixture.NewModel().BindOperation(tryNode, tryOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.BroadCatchRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

// TestExceptionNamingRule_BothDirections covers THROWS008 (a genuine
// exception type without the canonical suffix) and THROWS018 (a type
// named like an exception that doesn't derive from the hierarchy).
func TestExceptionNamingRule_BothDirections(t *testing.T) {
	plat := fixture.NewPlatform()
	badlyNamedException := fixture.NewType(ir.KindClass, "BadName", plat.Exception).WithQualifiedName("BadName")
	misleadingType := fixture.NewType(ir.KindClass, "TimeoutException", plat.Object).WithQualifiedName("TimeoutException")

	for _, tc := range []struct {
		name   string
		typ    *fixture.Type
		wantID string
	}{
		{"MissingSuffix", badlyNamedException, "THROWS008"},
		{"MisleadingName", misleadingType, "THROWS018"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			decl := fixture.NewNode(ir.NodeTypeDeclaration, testPos(0))
			model := fixture.NewModel().BindType(decl, tc.typ)

			comp := fixture.NewCompilation().
				AddTree(testFile, decl, model).
				RegisterType(tc.typ).
				WithRootException(plat.Exception).
				WithDisposableInterfaces(plat.IDisposable, plat.IAsyncDisposable).
				WithFinalizerSuppression(plat.SuppressFinalize)

			h, err := host.New(comp, host.Config{}, nil)
			require.NoError(t, err)
			h.Register(throws.ExceptionNamingRule{})

			result, err := h.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, tc.wantID, result.Diagnostics[0].ID)
		})
	}
}
