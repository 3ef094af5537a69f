package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/flow"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descUndisposedLocal = warning("DISP001", "Disposable local is never disposed")
	descMissingScoped    = warning("DISP004", "Disposable constructed without a scoped acquisition")
	descPreferScoped      = info("DISP006", "Prefer a scoped declaration")
	descDisposableInLambda = warning("DISP014", "Disposable created in a lambda does not escape")
	descCreatedNotReturned = warning("DISP022", "Disposable created but not returned")
	descConditionalOwnership = warning("DISP024", "Disposal is conditional on some branches")
	descNotDisposedAllPaths  = warning("DISP025", "Disposable is not disposed on all paths")
)

// LocalLifetimeRule drives DisposalFlowAnalyzer once per method and
// turns its four-way classification (§4.5 Output) into the family of
// local-lifetime diagnostics (§4.8 "Local lifetime / flow" bullets):
// undisposed, not-scoped, not-disposed-on-all-paths, conditionally
// disposed, created-in-a-lambda, and created-but-never-returned from a
// disposable-returning method. A local whose disposal is entirely
// correct is still offered DISP006 as a style suggestion, unless the
// enclosing method itself returns a disposable type (where the local
// plausibly escapes via return and wrapping it would be wrong).
type LocalLifetimeRule struct{}

func (LocalLifetimeRule) ID() string { return "disposal.local-lifetime" }

func (LocalLifetimeRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{
		descUndisposedLocal, descMissingScoped, descPreferScoped,
		descDisposableInLambda, descCreatedNotReturned,
		descConditionalOwnership, descNotDisposedAllPaths,
	}
}

func (LocalLifetimeRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (LocalLifetimeRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	results := ctx.DisposalFlow().AnalyzeMethod(m, ctx.Model())
	if len(results) == 0 {
		return
	}

	returnsDisposable := false
	if rt, ok := m.ReturnType(); ok {
		returnsDisposable = ctx.Disposables().IsAnyDisposable(rt)
	}

	for _, r := range results {
		loc := symbolSpan(r.Local)
		name := r.Local.Name()
		inLambda := false
		if nodes := r.Local.Syntax(); len(nodes) > 0 {
			inLambda = hasAncestorKind(nodes[0], ir.NodeLambda)
		}

		switch r.Classification {
		case flow.Leaked:
			switch {
			case inLambda:
				ctx.Report(descDisposableInLambda.New(loc,
					fmt.Sprintf("%q is created inside a lambda body and is never disposed; it also does not escape the enclosing scope", name), name))
			case returnsDisposable:
				ctx.Report(descCreatedNotReturned.New(loc,
					fmt.Sprintf("%q is created in a method that returns a disposable type but is neither disposed nor returned", name), name))
			default:
				ctx.Report(descUndisposedLocal.New(loc,
					fmt.Sprintf("local %q of a disposable type is never disposed", name), name))
			}
			ctx.Report(descMissingScoped.New(loc,
				fmt.Sprintf("%q is constructed without a scoped acquisition, which would have guaranteed disposal", name), name))
		case flow.LeakedOnSomePath:
			ctx.Report(descNotDisposedAllPaths.New(loc,
				fmt.Sprintf("%q is disposed on some but not all exit paths", name), name))
			ctx.Report(descMissingScoped.New(loc,
				fmt.Sprintf("%q is constructed without a scoped acquisition, which would have guaranteed disposal on every path", name), name))
		case flow.MaybeConditionallyDisposed:
			ctx.Report(descConditionalOwnership.New(loc,
				fmt.Sprintf("ownership of %q is only resolved conditionally: it is disposed on some branches and handed off on others", name), name))
			ctx.Report(descMissingScoped.New(loc,
				fmt.Sprintf("%q is constructed without a scoped acquisition", name), name))
		case flow.Clean:
			if !returnsDisposable {
				ctx.Report(descPreferScoped.New(loc,
					fmt.Sprintf("%q is always disposed before the method returns and could be declared as a scoped acquisition", name), name))
			}
		}
	}
}
