// Package classify implements DisposableClassifier (§4.2) and
// ExceptionClassifier (§4.3): pure predicates over ir.Type/ir.Method.
package classify

import (
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// DisposableClassifier decides whether a type participates in the
// synchronous or asynchronous disposable protocol, per §4.2.
type DisposableClassifier struct {
	facade  *facade.Facade
	sync    ir.Type
	async   ir.Type
	methods MethodLookup
}

// NewDisposableClassifier builds a classifier bound to the disposable
// interfaces the compilation declares.
func NewDisposableClassifier(fac *facade.Facade) *DisposableClassifier {
	sync, async := fac.Compilation().DisposableInterfaces()
	return &DisposableClassifier{facade: fac, sync: sync, async: async}
}

// IsDisposable reports whether t implements the synchronous disposable
// interface, directly, transitively, or structurally (a parameterless
// method matching the disposal signature — §3 invariant).
func (c *DisposableClassifier) IsDisposable(t ir.Type) bool {
	if t == nil {
		return false
	}
	if c.sync != nil && c.facade.Implements(t, c.sync) {
		return true
	}
	return c.DisposeMethod(t) != nil
}

// IsAsyncDisposable is the asynchronous analogue of IsDisposable.
func (c *DisposableClassifier) IsAsyncDisposable(t ir.Type) bool {
	if t == nil {
		return false
	}
	if c.async != nil && c.facade.Implements(t, c.async) {
		return true
	}
	return c.DisposeAsyncMethod(t) != nil
}

// IsAnyDisposable is IsDisposable(t) || IsAsyncDisposable(t).
func (c *DisposableClassifier) IsAnyDisposable(t ir.Type) bool {
	return c.IsDisposable(t) || c.IsAsyncDisposable(t)
}

// MethodLookup is implemented by anything that can enumerate a type's
// declared methods. ir.Type itself does not carry a method list (spec
// keeps Type minimal), so callers that need DisposeMethod/
// DisposeAsyncMethod/HasFinalizer to inspect real members supply a
// MethodLookup; fixtures register methods explicitly via
// classify.Registry.
type MethodLookup interface {
	MethodsOf(t ir.Type) []ir.Method
}

// Registry is the reference MethodLookup: a flat map populated by
// callers (production hosts would instead query their compiler's
// symbol table).
type Registry struct {
	methods map[ir.Type][]ir.Method
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry { return &Registry{methods: make(map[ir.Type][]ir.Method)} }

// Add registers method as declared on t.
func (r *Registry) Add(t ir.Type, method ir.Method) *Registry {
	r.methods[t] = append(r.methods[t], method)
	return r
}

func (r *Registry) MethodsOf(t ir.Type) []ir.Method { return r.methods[t] }

// WithMethods attaches a MethodLookup the classifier uses for
// structural/member-shape predicates.
func (c *DisposableClassifier) WithMethods(lookup MethodLookup) *DisposableClassifier {
	c.methods = lookup
	return c
}

func isDisposeName(name string) bool {
	return strings.EqualFold(name, "Dispose")
}

func isDisposeAsyncName(name string) bool {
	return strings.EqualFold(name, "DisposeAsync")
}

// DisposeMethod returns the parameterless disposal method t declares,
// if any.
func (c *DisposableClassifier) DisposeMethod(t ir.Type) ir.Method {
	for _, m := range c.declaredMethods(t) {
		if isDisposeName(m.Name()) && len(m.Parameters()) == 0 {
			return m
		}
	}
	return nil
}

// DisposeAsyncMethod returns the parameterless asynchronous disposal
// method t declares, if any.
func (c *DisposableClassifier) DisposeAsyncMethod(t ir.Type) ir.Method {
	for _, m := range c.declaredMethods(t) {
		if isDisposeAsyncName(m.Name()) && len(m.Parameters()) == 0 {
			return m
		}
	}
	return nil
}

// IsDisposeFlagMethod reports whether m is the "dispose-with-flag"
// pattern: exactly one boolean parameter, named like a disposal
// method, protected, and virtual or override (§4.2).
func (c *DisposableClassifier) IsDisposeFlagMethod(m ir.Method) bool {
	if m == nil || !isDisposeName(m.Name()) {
		return false
	}
	params := m.Parameters()
	if len(params) != 1 {
		return false
	}
	if !isBooleanParameter(params[0]) {
		return false
	}
	if m.Accessibility() != ir.AccessProtected {
		return false
	}
	return m.Modifiers().Has(ir.ModVirtual) || m.Modifiers().Has(ir.ModOverride)
}

func isBooleanParameter(p ir.Parameter) bool {
	if p.Type == nil {
		return false
	}
	name := strings.ToLower(p.Type.DisplayName())
	return name == "boolean" || name == "bool"
}

// HasFinalizer reports whether t declares a finalizer/destructor.
func (c *DisposableClassifier) HasFinalizer(t ir.Type) bool {
	for _, m := range c.declaredMethods(t) {
		if m.MethodKind() == ir.MethodFinalizer {
			return true
		}
	}
	return false
}

// HasDisposableBase reports whether t's base type is itself disposable.
func (c *DisposableClassifier) HasDisposableBase(t ir.Type) bool {
	base, ok := t.BaseType()
	if !ok {
		return false
	}
	return c.IsAnyDisposable(base)
}

// IsFinalizerSuppressionCall reports whether invocation calls the
// platform's finalizer-suppression intrinsic.
func (c *DisposableClassifier) IsFinalizerSuppressionCall(invocation *ir.InvocationOp) bool {
	if invocation == nil || invocation.Method == nil {
		return false
	}
	suppress := c.facade.Compilation().FinalizerSuppressionMethod()
	if suppress == nil {
		return false
	}
	return invocation.Method.Name() == suppress.Name()
}

// IsDisposalCall reports whether op is an invocation of a disposal
// method (sync or async) on its target, or an implicit disposal via a
// scoped-acquisition operation.
func (c *DisposableClassifier) IsDisposalCall(op ir.Operation) bool {
	switch o := op.(type) {
	case *ir.InvocationOp:
		if o.Method == nil {
			return false
		}
		return isDisposeName(o.Method.Name()) || isDisposeAsyncName(o.Method.Name())
	case *ir.ScopedAcquisitionOp:
		return true
	default:
		return false
	}
}

func (c *DisposableClassifier) declaredMethods(t ir.Type) []ir.Method {
	if c.methods == nil {
		return nil
	}
	return c.methods.MethodsOf(t)
}
