// Package demo builds a small, self-contained ir/fixture.Compilation
// exercising two of the repository's best-known findings end to end —
// an undisposed local (DISP001) and a catch clause shadowed by an
// earlier, broader one (THROWS003), the same two scenarios spec §8
// describes literally. cmd/throwslint drives it for a manual smoke
// test; internal/host's example test anchors on it too.
package demo

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/disposal"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// Scenario bundles a ready-to-run Compilation with the member registry
// ProtocolShapeRule and friends need (ir.Type carries no member list of
// its own, §3).
type Scenario struct {
	Compilation *fixture.Compilation
	Registry    *disposal.Registry
}

// Build constructs the scenario.
func Build() *Scenario {
	plat := fixture.NewPlatform()
	reg := disposal.NewRegistry()

	resource := fixture.NewType(ir.KindClass, "Resource", plat.Object, plat.IDisposable)
	disposeMethod := plat.DisposeMethod(resource)
	reg.AddMethod(resource, disposeMethod)

	service := fixture.NewType(ir.KindClass, "Service", plat.Object)
	argumentError := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception).
		WithQualifiedName("System.ArgumentException")

	const file = "service.demo"
	model := fixture.NewModel()

	leakyDecl, leakyMethod := buildLeakyMethod(file, service, resource, model)
	riskyDecl, riskyMethod := buildRiskyMethod(file, service, plat, argumentError, model)

	serviceDecl := fixture.NewNode(ir.NodeTypeDeclaration, ir.Position{File: file, Offset: 0}, leakyDecl, riskyDecl)
	model.BindType(serviceDecl, service)
	model.BindSymbol(leakyDecl, leakyMethod)
	model.BindSymbol(riskyDecl, riskyMethod)

	comp := fixture.NewCompilation().
		AddTree(file, serviceDecl, model).
		RegisterType(resource).
		RegisterType(service).
		RegisterType(argumentError).
		WithRootException(plat.Exception).
		WithDisposableInterfaces(plat.IDisposable, plat.IAsyncDisposable).
		WithFinalizerSuppression(plat.SuppressFinalize)

	return &Scenario{Compilation: comp, Registry: reg}
}

// buildLeakyMethod builds `Resource Leaky() { var r = new Resource(); return; }`.
// r is never disposed on the only exit path (DISP001).
func buildLeakyMethod(file string, service, resource *fixture.Type, model *fixture.Model) (*fixture.Node, *fixture.MethodSymbol) {
	creationNode := fixture.NewNode(ir.NodeObjectCreation, ir.Position{File: file, Offset: 110})
	declNode := fixture.NewNode(ir.NodeLocalDeclaration, ir.Position{File: file, Offset: 100}, creationNode)
	returnNode := fixture.NewNode(ir.NodeReturn, ir.Position{File: file, Offset: 140})
	body := fixture.NewNode(ir.NodeBlock, ir.Position{File: file, Offset: 90}, declNode, returnNode)
	decl := fixture.NewNode(ir.NodeMethodDeclaration, ir.Position{File: file, Offset: 80}, body)

	local := fixture.NewSymbol(ir.SymbolLocal, "r", resource).WithSyntax(declNode)
	method := fixture.NewMethod("Leaky", ir.MethodOrdinary).
		WithContainingType(service).
		WithReturnType(resource).
		WithBlockBody(body)

	creationOp := ir.NewObjectCreationOp(ir.Common{Syntax: creationNode, ResultType: resource}, resource, nil, nil)
	declOp := ir.NewVariableDeclaratorOp(ir.Common{Syntax: declNode}, local, creationOp)
	returnOp := ir.NewReturnOp(ir.Common{Syntax: returnNode}, nil)

	model.BindOperation(declNode, declOp)
	model.BindOperation(returnNode, returnOp)
	model.BindSymbol(declNode, local)

	return decl, method
}

// buildRiskyMethod builds a try statement whose first catch (the root
// exception type) shadows its second, more specific catch
// (ArgumentException) — THROWS003.
func buildRiskyMethod(file string, service *fixture.Type, plat *fixture.Platform, argumentError *fixture.Type, model *fixture.Model) (*fixture.Node, *fixture.MethodSymbol) {
	broadCatch := fixture.NewNode(ir.NodeCatchClause, ir.Position{File: file, Offset: 220})
	specificCatch := fixture.NewNode(ir.NodeCatchClause, ir.Position{File: file, Offset: 240})
	tryBlock := fixture.NewNode(ir.NodeBlock, ir.Position{File: file, Offset: 210})
	tryNode := fixture.NewNode(ir.NodeTry, ir.Position{File: file, Offset: 200}, tryBlock, broadCatch, specificCatch)
	body := fixture.NewNode(ir.NodeBlock, ir.Position{File: file, Offset: 190}, tryNode)
	decl := fixture.NewNode(ir.NodeMethodDeclaration, ir.Position{File: file, Offset: 180}, body)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).
		WithContainingType(service).
		WithBlockBody(body)

	tryOp := ir.NewTryOp(ir.Common{Syntax: tryNode}, nil, []ir.CatchClause{
		{CaughtType: plat.Exception, Syntax: broadCatch},
		{CaughtType: argumentError, Syntax: specificCatch},
	}, nil)
	model.BindOperation(tryNode, tryOp)

	return decl, method
}
