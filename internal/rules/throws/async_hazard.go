package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descSyncThrowBeforeAwait = warning("THROWS010", "Throw escapes synchronously before the first await")
	descSyncThrowBeforeYield = warning("THROWS020", "Throw escapes synchronously before the first yield")
)

// AsyncHazardRule flags a throw statement that runs before the method's
// first suspension point: an async method normally defers every
// exception into the returned task, but a throw before the first await
// escapes synchronously at the call itself, surprising a caller who
// assumed they could always await to observe the failure. An iterator
// method has the identical hazard around its first yield: the throw
// runs synchronously from the factory call rather than being deferred
// to the first MoveNext.
type AsyncHazardRule struct{}

func (AsyncHazardRule) ID() string { return "throws.async-hazard" }

func (AsyncHazardRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descSyncThrowBeforeAwait, descSyncThrowBeforeYield}
}

func (AsyncHazardRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (AsyncHazardRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	body, ok := m.Body()
	if !ok {
		return
	}
	stmts := statementOperations(body, ctx.Model())
	async := m.Modifiers().Has(ir.ModAsync)
	iterator := bodyHasYield(stmts)
	if !async && !iterator {
		return
	}
	suspended := false
	for _, s := range stmts {
		if suspended {
			return
		}
		switch o := s.(type) {
		case *ir.AwaitOp, *ir.YieldOp:
			suspended = true
		case *ir.ThrowOp:
			if async {
				ctx.Report(descSyncThrowBeforeAwait.New(span(o.Syntax()),
					"this throw runs before the method's first await, so it escapes synchronously rather than through the returned task"))
			}
			if iterator {
				ctx.Report(descSyncThrowBeforeYield.New(span(o.Syntax()),
					"this throw runs before the method's first yield, so it escapes synchronously from the factory call rather than from MoveNext"))
			}
			return
		}
	}
}

func bodyHasYield(stmts []ir.Operation) bool {
	for _, s := range stmts {
		if s.Kind() == ir.OpYield {
			return true
		}
		if containsKind(s.Syntax(), ir.NodeIteratorYield) {
			return true
		}
	}
	return false
}
