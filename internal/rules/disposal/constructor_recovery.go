package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descConstructorLacksRecovery = warning("DISP018", "Constructor lacks failure recovery around a disposable it creates")

// ConstructorRecoveryRule flags a constructor that assigns a field to a
// freshly created disposable and then keeps running unguarded
// statements that could still throw: if one of those later statements
// faults, the already-acquired resource is never disposed because the
// object itself never finished constructing.
type ConstructorRecoveryRule struct{}

func (ConstructorRecoveryRule) ID() string { return "disposal.constructor-recovery" }

func (ConstructorRecoveryRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descConstructorLacksRecovery}
}

func (ConstructorRecoveryRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (ConstructorRecoveryRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	if m.MethodKind() != ir.MethodConstructor {
		return
	}
	body, ok := m.Body()
	if !ok {
		return
	}
	stmts := statementOperations(body, ctx.Model())
	if len(stmts) == 1 {
		// A single-statement body has nothing after the acquisition that
		// could fault before construction completes.
		if _, isTry := stmts[0].(*ir.TryOp); !isTry {
			return
		}
	}

	for i, s := range stmts {
		a, ok := s.(*ir.AssignmentOp)
		if !ok {
			continue
		}
		if _, isField := a.Target.(*ir.FieldReferenceOp); !isField {
			continue
		}
		oc, ok := a.Value.(*ir.ObjectCreationOp)
		if !ok || !ctx.Disposables().IsAnyDisposable(oc.Type) {
			continue
		}
		if i == len(stmts)-1 {
			continue
		}
		if _, guarded := stmts[i+1].(*ir.TryOp); guarded {
			continue
		}
		ctx.Report(descConstructorLacksRecovery.New(span(s.Syntax()),
			fmt.Sprintf("%s assigns a disposable field and then runs further statements with no failure recovery to dispose it on a later fault", m.Name()),
			m.Name()))
		return
	}
}
