package throws

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/callgraph"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/flow"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

const transitiveVisibilityMaxDepth = 4
const transitiveVisibilityFanInThreshold = 3

var (
	descInvisibleAcrossCallers = warning("THROWS027", "Thrown exception has no visibility anywhere in its callers")
	descInvisibleAtHighFanIn   = warning("THROWS028", "Widely-called method's exception has no visibility at any call site")
)

// TransitiveExceptionVisibilityRule runs once after every per-type
// callback has finished, since it needs the whole CallGraph: it asks
// not just whether a method documents what it throws (ContractDocRule's
// concern) but whether that escape is visible ANYWHERE along every
// transitive caller chain — caught by a catch clause or at least
// mentioned in a caller's own doc tag. An escape that is neither caught
// nor documented across the entire reachable caller set has, in
// practice, no discoverable contract at all. THROWS028 is the same
// finding raised to a harder problem when the method has enough
// distinct callers that no single caller can reasonably be expected to
// have guessed the contract on its own.
type TransitiveExceptionVisibilityRule struct{}

func (TransitiveExceptionVisibilityRule) ID() string { return "throws.transitive-visibility" }

func (TransitiveExceptionVisibilityRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descInvisibleAcrossCallers, descInvisibleAtHighFanIn}
}

func (TransitiveExceptionVisibilityRule) OnCompilationEnd(ctx *host.RunContext) {
	graph := ctx.CallGraph()
	comp := ctx.Facade().Compilation()
	trees := comp.SyntaxTrees()
	modelFor := func(file string) ir.SemanticModel {
		for _, t := range trees {
			if t.Path == file {
				return comp.SemanticModel(t)
			}
		}
		return nil
	}

	for _, sym := range graph.Nodes() {
		m, ok := sym.(ir.Method)
		if !ok {
			continue
		}
		if _, ok := m.Body(); !ok {
			continue
		}
		nodes := m.Syntax()
		if len(nodes) == 0 {
			continue
		}
		model := modelFor(nodes[0].Pos().File)
		if model == nil {
			continue
		}

		result := ctx.ExceptionFlow().AnalyzeMethod(m, model)
		if len(result.Escapes) == 0 {
			continue
		}
		callers := callgraph.TransitiveCallers(graph, sym, transitiveVisibilityMaxDepth)
		if len(callers) == 0 {
			continue
		}

		seen := map[ir.Type]bool{}
		for _, esc := range result.Escapes {
			if esc.Type == nil || seen[esc.Type] {
				continue
			}
			seen[esc.Type] = true
			if isVisibleToAnyCaller(ctx, modelFor, esc.Type, callers) {
				continue
			}
			directCallers := graph.DirectCallers(sym)
			if len(directCallers) >= transitiveVisibilityFanInThreshold {
				ctx.Report(descInvisibleAtHighFanIn.New(symbolSpan(m),
					fmt.Sprintf("%s can let %s escape and has %d direct callers, none of which catch or document it", m.Name(), esc.Type.DisplayName(), len(directCallers)),
					m.Name(), esc.Type.DisplayName()))
			} else {
				ctx.Report(descInvisibleAcrossCallers.New(symbolSpan(m),
					fmt.Sprintf("%s can let %s escape but no caller in its transitive call chain catches or documents it", m.Name(), esc.Type.DisplayName()),
					m.Name(), esc.Type.DisplayName()))
			}
		}
	}
}

func isVisibleToAnyCaller(ctx *host.RunContext, modelFor func(string) ir.SemanticModel, excType ir.Type, callers []ir.Symbol) bool {
	for _, c := range callers {
		cm, ok := c.(ir.Method)
		if !ok {
			continue
		}
		for _, name := range flow.ParseThrowsDoc(cm.Doc()) {
			if t, ok := ctx.Facade().Compilation().LookupType(name); ok && t == excType {
				return true
			}
		}
		body, ok := cm.Body()
		if !ok {
			continue
		}
		nodes := cm.Syntax()
		if len(nodes) == 0 {
			continue
		}
		model := modelFor(nodes[0].Pos().File)
		if model == nil {
			continue
		}
		for _, t := range tryOpsIn(statementOperations(body, model)) {
			for _, cc := range t.Catches {
				if cc.CaughtType == nil || cc.CaughtType == excType {
					return true
				}
				if ctx.Facade().IsSubtype(excType, cc.CaughtType) {
					return true
				}
			}
		}
	}
	return false
}
