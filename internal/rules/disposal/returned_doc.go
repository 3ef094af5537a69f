package disposal

import (
	"fmt"
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descReturnedDisposableUndocumented = info("DISP016", "Returned disposable's ownership is undocumented")
	descFactoryDocumentation           = info("DISP027", "Factory method named like a query returns a disposable")
)

// ReturnedDisposableDocRule covers the two documentation-shaped
// composition findings: any method returning a disposable type whose
// doc comment says nothing about the caller taking ownership (DISP016),
// and the narrower case of a method named like a read-only query
// (Get*/Find*/Fetch*/Retrieve*) that nonetheless hands the caller a
// disposable to own (DISP027) — such a name invites callers to treat
// the result as borrowed rather than owned.
type ReturnedDisposableDocRule struct{}

func (ReturnedDisposableDocRule) ID() string { return "disposal.returned-doc" }

func (ReturnedDisposableDocRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descReturnedDisposableUndocumented, descFactoryDocumentation}
}

func (ReturnedDisposableDocRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (ReturnedDisposableDocRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	rt, ok := m.ReturnType()
	if !ok || !ctx.Disposables().IsAnyDisposable(rt) {
		return
	}
	documented := mentionsDispose(m.Doc()) || mentionsOwnership(m.Doc())
	if !documented {
		ctx.Report(descReturnedDisposableUndocumented.New(symbolSpan(m),
			fmt.Sprintf("%s returns a disposable type but its documentation doesn't say the caller owns it", m.Name()),
			m.Name()))
	}
	if isGetterNamed(m.Name()) {
		ctx.Report(descFactoryDocumentation.New(symbolSpan(m),
			fmt.Sprintf("%s reads like a query but returns a disposable the caller must dispose; consider a Create*/Build* name or documenting the handoff", m.Name()),
			m.Name()))
	}
}

func mentionsOwnership(doc string) bool {
	lower := strings.ToLower(doc)
	for _, phrase := range []string{"caller owns", "caller is responsible", "ownership"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
