package throws

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descUnreachableCatch = warning("THROWS003", "Catch clause is unreachable because an earlier clause is broader")
	descDuplicateCatch    = warning("THROWS014", "Duplicate catch clause for the same exception type")
)

// CatchOrderingRule reports two distinct ways catch clauses go wrong in
// relation to one another. THROWS003 reuses ExceptionFlowAnalyzer's own
// shadowing computation (§4.6, the `most_specific` ordering rule) rather
// than re-deriving it. THROWS014 catches the one case that computation
// deliberately excludes: two clauses declared for the exact same type,
// which shadowing doesn't flag since it only looks for a strict
// supertype earlier in the list.
type CatchOrderingRule struct{}

func (CatchOrderingRule) ID() string { return "throws.catch-ordering" }

func (CatchOrderingRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descUnreachableCatch, descDuplicateCatch}
}

func (CatchOrderingRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (CatchOrderingRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	result := ctx.ExceptionFlow().AnalyzeMethod(m, ctx.Model())
	for _, node := range result.UnreachableCatches {
		ctx.Report(descUnreachableCatch.New(span(node),
			fmt.Sprintf("this catch clause in %s is unreachable: an earlier, broader clause already catches its type", m.Name()),
			m.Name()))
	}
}

func (CatchOrderingRule) Kinds() []ir.OperationKind { return []ir.OperationKind{ir.OpTry} }

func (CatchOrderingRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	t := op.(*ir.TryOp)
	seen := map[ir.Type]bool{}
	for _, cc := range t.Catches {
		if cc.CaughtType == nil {
			continue
		}
		if seen[cc.CaughtType] {
			ctx.Report(descDuplicateCatch.New(span(cc.Syntax),
				fmt.Sprintf("a catch clause for %s already appears earlier in this try statement", cc.CaughtType.DisplayName()),
				cc.CaughtType.DisplayName()))
			continue
		}
		seen[cc.CaughtType] = true
	}
}
