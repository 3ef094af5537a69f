package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descBroadCatchAroundYield      = warning("THROWS023", "Broad catch wraps a yield, hiding resumption failures")
	descBroadCatchAroundAsyncYield = warning("THROWS024", "Broad catch wraps a yield in an async iterator")
)

// AsyncIteratorCatchRule looks at a try body that contains a yield: a
// broad, unfiltered catch there doesn't just catch the method's own
// code, it also catches whatever the consumer's resumption of the
// enumerator raises (including a cancellation signal), which a plain
// broad-catch check elsewhere in the body wouldn't single out.
// THROWS024 is the same hazard in an async iterator, where the
// resumption can itself cross a suspension point.
type AsyncIteratorCatchRule struct{}

func (AsyncIteratorCatchRule) ID() string { return "throws.async-iterator-catch" }

func (AsyncIteratorCatchRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descBroadCatchAroundYield, descBroadCatchAroundAsyncYield}
}

func (AsyncIteratorCatchRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (AsyncIteratorCatchRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	body, ok := m.Body()
	if !ok {
		return
	}
	async := m.Modifiers().Has(ir.ModAsync)
	root := ctx.Facade().Compilation().RootExceptionType()
	for _, t := range tryOpsIn(statementOperations(body, ctx.Model())) {
		if !tryBodyYields(t) {
			continue
		}
		for _, cc := range t.Catches {
			if cc.HasFilter {
				continue
			}
			if cc.CaughtType != nil && (root == nil || cc.CaughtType != root) {
				continue
			}
			if async {
				ctx.Report(descBroadCatchAroundAsyncYield.New(span(cc.Syntax),
					"this unfiltered catch wraps a yield in an async iterator; it also catches whatever the consumer's resumption raises, including cancellation"))
			} else {
				ctx.Report(descBroadCatchAroundYield.New(span(cc.Syntax),
					"this unfiltered catch wraps a yield; it also catches whatever the consumer's resumption of the enumerator raises"))
			}
		}
	}
}

func tryBodyYields(t *ir.TryOp) bool {
	for _, s := range t.TryBody {
		if s.Kind() == ir.OpYield {
			return true
		}
		if containsKind(s.Syntax(), ir.NodeIteratorYield) {
			return true
		}
	}
	return false
}
