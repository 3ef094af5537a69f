package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descCollectionNotDisposed = warning("DISP020", "Collection of disposables is not disposed element-by-element")
	descSuggestCompositeDisposer = info("DISP026", "Consider a composite disposer")
	descWrapperShouldDispose     = warning("DISP028", "Wrapper over a disposable should itself be disposable")
	descStructDisposableHazard   = warning("DISP029", "Disposable struct is hazardous")
)

// CompositionShapeRule covers §4.8's "Composition" bullets that react
// to how a type is put together rather than to one method's control
// flow: a collection-valued field of disposable elements whose disposal
// method never iterates it, a thin wrapper around a disposable that
// doesn't itself forward disposal, and a disposable value type (a
// struct implementing the protocol directly carries copy hazards: the
// copy that outlives disposal still holds a disposed handle).
type CompositionShapeRule struct {
	fields     FieldLookup
	collections CollectionLookup
}

// NewCompositionShapeRule binds the rule to the registries it needs.
func NewCompositionShapeRule(fields FieldLookup, collections CollectionLookup) *CompositionShapeRule {
	return &CompositionShapeRule{fields: fields, collections: collections}
}

func (*CompositionShapeRule) ID() string { return "disposal.composition-shape" }

func (*CompositionShapeRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descCollectionNotDisposed, descSuggestCompositeDisposer, descWrapperShouldDispose, descStructDisposableHazard}
}

func (r *CompositionShapeRule) OnType(ctx *host.RunContext, t ir.Type) {
	if t.Kind() == ir.KindStruct && ctx.Disposables().IsAnyDisposable(t) {
		ctx.Report(descStructDisposableHazard.New(ir.Span{},
			fmt.Sprintf("%s is a disposable value type; copying it duplicates ownership of the underlying resource", t.DisplayName()),
			t.DisplayName()))
	}

	r.checkCollectionFields(ctx, t)
	r.checkWrapper(ctx, t)
}

func (r *CompositionShapeRule) checkCollectionFields(ctx *host.RunContext, t ir.Type) {
	if r.fields == nil || r.collections == nil {
		return
	}
	disposeMethod := ctx.Disposables().DisposeMethod(t)
	for _, f := range r.fields.FieldsOf(t) {
		if f.IsStatic() {
			continue
		}
		element, ok := r.collections.ElementTypeOf(f.DeclaredType())
		if !ok || !ctx.Disposables().IsAnyDisposable(element) {
			continue
		}
		if disposeMethod != nil {
			if body, ok := disposeMethod.Body(); ok && hasLoopOverField(body, ctx.Model(), f) {
				continue
			}
		}
		ctx.Report(descCollectionNotDisposed.New(symbolSpan(f),
			fmt.Sprintf("%q holds disposable elements but %s's disposal does not iterate and dispose them", f.Name(), t.DisplayName()),
			f.Name()))
		ctx.Report(descSuggestCompositeDisposer.New(symbolSpan(f),
			fmt.Sprintf("consider tracking %q through a composite disposer that disposes every element uniformly", f.Name()),
			f.Name()))
	}
}

func hasLoopOverField(node ir.SyntaxNode, model ir.SemanticModel, field ir.Symbol) bool {
	if node == nil {
		return false
	}
	if node.Kind() == ir.NodeLoop {
		for _, d := range ir.Descendants(node) {
			if op, ok := model.OperationFor(d); ok {
				if fr, ok := op.(*ir.FieldReferenceOp); ok && fr.Field == field {
					return true
				}
			}
		}
	}
	for _, c := range node.Children() {
		if hasLoopOverField(c, model, field) {
			return true
		}
	}
	return false
}

// checkWrapper recognizes the thin-wrapper shape: a type that does not
// itself implement a disposal protocol and declares exactly one field,
// which is private, non-static, and of a disposable type. Whether that
// field is read-only, and whether a constructor takes a parameter of
// the same type, are not checked. A wrapper over a disposable that
// doesn't forward disposal silently drops the wrapped resource.
func (r *CompositionShapeRule) checkWrapper(ctx *host.RunContext, t ir.Type) {
	if r.fields == nil || ctx.Disposables().IsAnyDisposable(t) {
		return
	}
	fields := r.fields.FieldsOf(t)
	if len(fields) != 1 {
		return
	}
	f := fields[0]
	if f.Accessibility() != ir.AccessPrivate || f.IsStatic() {
		return
	}
	if !ctx.Disposables().IsAnyDisposable(f.DeclaredType()) {
		return
	}
	ctx.Report(descWrapperShouldDispose.New(symbolSpan(f),
		fmt.Sprintf("%s wraps a disposable %q but does not itself implement the disposal protocol", t.DisplayName(), f.Name()),
		t.DisplayName()))
}
