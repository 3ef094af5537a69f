package host

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Rule is the capability interface every analyzer rule implements
// (§9 design note: open, unlike the closed Operation/SyntaxNode
// variants — new rules are added by implementing this interface, not
// by extending a switch). A Rule declares only its identity and the
// diagnostics it may produce; the phases it participates in are
// discovered by the host via the optional interfaces below.
type Rule interface {
	ID() string
	Descriptors() []ir.Descriptor
}

// TypeRule observes phase (a): once per named type.
type TypeRule interface {
	Rule
	OnType(ctx *RunContext, t ir.Type)
}

// OperationBlockRule observes phase (b): the start and end of a
// method's operation block. Start and end are totally ordered around
// every OperationRule callback for the same method (§4.7).
type OperationBlockRule interface {
	Rule
	OnOperationBlockStart(ctx *RunContext, m ir.Method)
	OnOperationBlockEnd(ctx *RunContext, m ir.Method)
}

// OperationRule observes phase (c): individual operations of the kinds
// it declares interest in.
type OperationRule interface {
	Rule
	Kinds() []ir.OperationKind
	OnOperation(ctx *RunContext, op ir.Operation)
}

// CompilationStartRule observes phase (d), run once before any other
// phase.
type CompilationStartRule interface {
	Rule
	OnCompilationStart(ctx *RunContext)
}

// CompilationEndRule observes phase (e), run once after every per-type
// work item has completed. It may depend on CallGraph.
type CompilationEndRule interface {
	Rule
	OnCompilationEnd(ctx *RunContext)
}
