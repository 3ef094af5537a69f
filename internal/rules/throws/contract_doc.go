package throws

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/flow"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descMissingContractTag    = warning("THROWS001", "Throw statement has no matching documentation tag")
	descNoContractAtAll        = warning("THROWS002", "Method can throw but documents no exceptions at all")
	descMissingAsyncContractTag = warning("THROWS013", "Async throw has no matching documentation tag")
	descMissingIteratorContractTag = warning("THROWS026", "Deferred throw from an iterator has no matching documentation tag")
	descStaleContractTag       = info("THROWS025", "Documented exception is never actually thrown")
)

// ContractDocRule drives ExceptionFlowAnalyzer once per method and
// cross-checks its escape set against the method's own `<exception
// cref="...">` documentation tags (flow.ParseThrowsDoc), reported per
// escape channel since a caller reads a synchronous, asynchronous, and
// iterator-deferred throw very differently (§4.6).
type ContractDocRule struct{}

func (ContractDocRule) ID() string { return "throws.contract-doc" }

func (ContractDocRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descMissingContractTag, descNoContractAtAll, descMissingAsyncContractTag, descMissingIteratorContractTag, descStaleContractTag}
}

func (ContractDocRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (ContractDocRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	result := ctx.ExceptionFlow().AnalyzeMethod(m, ctx.Model())
	if len(result.Escapes) == 0 {
		return
	}

	documentedNames := flow.ParseThrowsDoc(m.Doc())
	documented := map[ir.Type]bool{}
	for _, name := range documentedNames {
		if t, ok := ctx.Facade().Compilation().LookupType(name); ok {
			documented[t] = true
		}
	}

	if len(documentedNames) == 0 {
		ctx.Report(descNoContractAtAll.New(symbolSpan(m),
			fmt.Sprintf("%s can let an exception escape but documents none", m.Name()), m.Name()))
	}

	reported := map[ir.Type]bool{}
	seenTypes := map[ir.Type]bool{}
	for _, esc := range result.Escapes {
		if esc.Type == nil || documented[esc.Type] || reported[esc.Type] {
			seenTypes[esc.Type] = true
			continue
		}
		seenTypes[esc.Type] = true
		reported[esc.Type] = true
		switch esc.Channel {
		case ir.EscapeAsync:
			ctx.Report(descMissingAsyncContractTag.New(locationOf(esc, m),
				fmt.Sprintf("%s can let %s escape after a suspension point with no documentation tag for it", m.Name(), esc.Type.DisplayName()),
				m.Name(), esc.Type.DisplayName()))
		case ir.EscapeIteratorDeferred:
			ctx.Report(descMissingIteratorContractTag.New(locationOf(esc, m),
				fmt.Sprintf("%s can let %s escape from a deferred iterator body with no documentation tag for it", m.Name(), esc.Type.DisplayName()),
				m.Name(), esc.Type.DisplayName()))
		default:
			ctx.Report(descMissingContractTag.New(locationOf(esc, m),
				fmt.Sprintf("%s can let %s escape but has no documentation tag for it", m.Name(), esc.Type.DisplayName()),
				m.Name(), esc.Type.DisplayName()))
		}
	}

	for t := range documented {
		if !seenTypes[t] {
			ctx.Report(descStaleContractTag.New(symbolSpan(m),
				fmt.Sprintf("%s documents %s but no analyzed path actually throws it", m.Name(), t.DisplayName()),
				m.Name(), t.DisplayName()))
		}
	}
}

func locationOf(esc flow.Escape, m ir.Method) ir.Span {
	if esc.Site != nil {
		return span(esc.Site)
	}
	return symbolSpan(m)
}
