package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descBroadRootCatch   = warning("THROWS007", "Catch of the root exception type has no when-filter")
	descBroadGeneralCatch = warning("THROWS017", "General catch-all has no when-filter")
)

// BroadCatchRule flags a catch clause broad enough to swallow anything
// without a `when`-filter to narrow it: an explicit catch of the root
// exception type (THROWS007) and a type-less general catch (THROWS017)
// are reported distinctly since only the latter also catches exceptions
// outside the documented hierarchy entirely.
type BroadCatchRule struct{}

func (BroadCatchRule) ID() string { return "throws.broad-catch" }

func (BroadCatchRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descBroadRootCatch, descBroadGeneralCatch}
}

func (BroadCatchRule) Kinds() []ir.OperationKind { return []ir.OperationKind{ir.OpTry} }

func (BroadCatchRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	t := op.(*ir.TryOp)
	root := ctx.Facade().Compilation().RootExceptionType()
	for _, cc := range t.Catches {
		if cc.HasFilter {
			continue
		}
		switch {
		case cc.CaughtType == nil:
			ctx.Report(descBroadGeneralCatch.New(span(cc.Syntax),
				"this general catch has no type and no when-filter; it catches everything, including bugs it shouldn't hide"))
		case root != nil && cc.CaughtType == root:
			ctx.Report(descBroadRootCatch.New(span(cc.Syntax),
				"this catch of the root exception type has no when-filter to narrow what it actually handles"))
		}
	}
}
