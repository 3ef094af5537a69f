package disposal

import (
	"fmt"
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descShouldImplementAsync = info("DISP012", "Type should implement the asynchronous disposal protocol")
	descAsyncProtocolShape   = warning("DISP013", "Asynchronous disposal core method has the wrong result type")
)

// AsyncShapeRule covers the async half of §4.8's "Async and iterators"
// bullets that are type-shaped rather than flow-shaped: a type that
// only disposes synchronously despite owning asynchronously disposable
// fields (DISP012), and a "core" async disposal method shaped like the
// dispose-with-flag pattern but returning the task-like type instead of
// the lighter value-task equivalent the platform expects for this hook
// (DISP013).
type AsyncShapeRule struct {
	fields  FieldLookup
	methods MethodLookup
}

// NewAsyncShapeRule binds the rule to the field/method registries it
// inspects.
func NewAsyncShapeRule(fields FieldLookup, methods MethodLookup) *AsyncShapeRule {
	return &AsyncShapeRule{fields: fields, methods: methods}
}

func (*AsyncShapeRule) ID() string { return "disposal.async-shape" }

func (*AsyncShapeRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descShouldImplementAsync, descAsyncProtocolShape}
}

func (r *AsyncShapeRule) OnType(ctx *host.RunContext, t ir.Type) {
	if r.fields != nil && ctx.Disposables().IsDisposable(t) && !ctx.Disposables().IsAsyncDisposable(t) {
		for _, f := range r.fields.FieldsOf(t) {
			if !f.IsStatic() && ctx.Disposables().IsAsyncDisposable(f.DeclaredType()) {
				ctx.Report(descShouldImplementAsync.New(symbolSpan(f),
					fmt.Sprintf("%s owns asynchronously disposable field %q but only implements the synchronous disposal protocol", t.DisplayName(), f.Name()),
					t.DisplayName()))
				break
			}
		}
	}

	if r.methods == nil {
		return
	}
	for _, m := range r.methods.MethodsOf(t) {
		if !isAsyncDisposeCoreName(m.Name()) {
			continue
		}
		rt, ok := m.ReturnType()
		if !ok || rt == nil {
			continue
		}
		name := rt.DisplayName()
		if isTaskLikeName(name) && !isValueTaskLikeName(name) {
			ctx.Report(descAsyncProtocolShape.New(symbolSpan(m),
				fmt.Sprintf("%s.%s returns %s; the async disposal core hook should return the value-task equivalent", t.DisplayName(), m.Name(), name),
				t.DisplayName()))
		}
	}
}

func isAsyncDisposeCoreName(name string) bool {
	return strings.EqualFold(name, "DisposeAsyncCore")
}

func isTaskLikeName(name string) bool {
	return strings.HasPrefix(name, "Task") || strings.HasPrefix(name, "ValueTask")
}

func isValueTaskLikeName(name string) bool {
	return strings.HasPrefix(name, "ValueTask")
}
