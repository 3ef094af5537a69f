package classify

import (
	"sort"
	"sync"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// ExceptionClassifier computes inheritance depth, assignability, and
// catch-applicability of exception types (§4.3).
type ExceptionClassifier struct {
	facade *facade.Facade
	root   ir.Type

	depthCache sync.Map // ir.Type -> int
}

// NewExceptionClassifier builds a classifier bound to the compilation's
// root exception type.
func NewExceptionClassifier(fac *facade.Facade) *ExceptionClassifier {
	return &ExceptionClassifier{facade: fac, root: fac.Compilation().RootExceptionType()}
}

// IsExceptionType reports whether t is a subtype of the root exception
// type.
func (c *ExceptionClassifier) IsExceptionType(t ir.Type) bool {
	if t == nil || c.root == nil {
		return false
	}
	return c.facade.IsSubtype(t, c.root)
}

// InheritanceDepth returns t's distance to the root of its base chain
// (0 for the root itself), memoized.
func (c *ExceptionClassifier) InheritanceDepth(t ir.Type) int {
	if t == nil {
		return 0
	}
	if cached, ok := c.depthCache.Load(t); ok {
		return cached.(int)
	}
	depth := len(c.facade.Hierarchy(t)) - 1
	if depth < 0 {
		depth = 0
	}
	c.depthCache.Store(t, depth)
	return depth
}

// Catches reports whether a catch clause declared for caught (nil for a
// general catch) would catch an exception of type thrown.
func (c *ExceptionClassifier) Catches(caught, thrown ir.Type) bool {
	if caught == nil {
		return true
	}
	return c.facade.IsSubtype(thrown, caught)
}

// MostSpecific orders types by decreasing inheritance depth, breaking
// ties by original appearance order (stable sort), per §4.3.
func (c *ExceptionClassifier) MostSpecific(types []ir.Type) []ir.Type {
	ordered := make([]ir.Type, len(types))
	copy(ordered, types)
	sort.SliceStable(ordered, func(i, j int) bool {
		return c.InheritanceDepth(ordered[i]) > c.InheritanceDepth(ordered[j])
	})
	return ordered
}
