package fixture

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Model is the reference ir.SemanticModel implementation: three maps
// from SyntaxNode to the semantic facts a real binder would have
// computed.
type Model struct {
	types      map[ir.SyntaxNode]ir.Type
	symbols    map[ir.SyntaxNode]ir.Symbol
	operations map[ir.SyntaxNode]ir.Operation
}

// NewModel constructs an empty Model ready for Bind* calls.
func NewModel() *Model {
	return &Model{
		types:      make(map[ir.SyntaxNode]ir.Type),
		symbols:    make(map[ir.SyntaxNode]ir.Symbol),
		operations: make(map[ir.SyntaxNode]ir.Operation),
	}
}

// BindType records node's resulting type.
func (m *Model) BindType(node ir.SyntaxNode, t ir.Type) *Model {
	m.types[node] = t
	return m
}

// BindSymbol records the symbol a declaration/reference node resolves
// to.
func (m *Model) BindSymbol(node ir.SyntaxNode, s ir.Symbol) *Model {
	m.symbols[node] = s
	return m
}

// BindOperation records the Operation view of node, and recursively
// binds every descendant operation to its own Syntax() node so
// OperationFor works for the whole subtree in one call.
func (m *Model) BindOperation(node ir.SyntaxNode, op ir.Operation) *Model {
	m.operations[node] = op
	for _, child := range op.Children() {
		if child == nil {
			continue
		}
		if syntax := child.Syntax(); syntax != nil {
			m.BindOperation(syntax, child)
		}
	}
	return m
}

func (m *Model) TypeOf(node ir.SyntaxNode) (ir.Type, bool) {
	t, ok := m.types[node]
	return t, ok
}

func (m *Model) SymbolFor(node ir.SyntaxNode) (ir.Symbol, bool) {
	s, ok := m.symbols[node]
	return s, ok
}

func (m *Model) OperationFor(node ir.SyntaxNode) (ir.Operation, bool) {
	op, ok := m.operations[node]
	return op, ok
}

// Compilation is the reference ir.Compilation implementation: a fixed
// set of syntax trees, one Model per tree, and a flat type-name
// registry.
type Compilation struct {
	trees          []ir.SyntaxTree
	models         map[string]*Model
	typesByName    map[string]ir.Type
	rootException  ir.Type
	syncDisposable ir.Type
	asyncDisposable ir.Type
	suppressFinal  ir.Symbol
}

// NewCompilation constructs an empty Compilation.
func NewCompilation() *Compilation {
	return &Compilation{
		models:      make(map[string]*Model),
		typesByName: make(map[string]ir.Type),
	}
}

// AddTree registers a syntax tree with its semantic model.
func (c *Compilation) AddTree(path string, root ir.SyntaxNode, model *Model) *Compilation {
	c.trees = append(c.trees, ir.SyntaxTree{Path: path, Root: root})
	c.models[path] = model
	return c
}

// RegisterType makes t resolvable by its qualified name.
func (c *Compilation) RegisterType(t ir.Type) *Compilation {
	c.typesByName[t.QualifiedName()] = t
	return c
}

// WithRootException sets the root exception type.
func (c *Compilation) WithRootException(t ir.Type) *Compilation {
	c.rootException = t
	return c
}

// WithDisposableInterfaces sets the synchronous/asynchronous disposable
// protocol interfaces.
func (c *Compilation) WithDisposableInterfaces(sync, async ir.Type) *Compilation {
	c.syncDisposable = sync
	c.asyncDisposable = async
	return c
}

// WithFinalizerSuppression sets the finalizer-suppression intrinsic
// symbol.
func (c *Compilation) WithFinalizerSuppression(s ir.Symbol) *Compilation {
	c.suppressFinal = s
	return c
}

func (c *Compilation) SyntaxTrees() []ir.SyntaxTree { return c.trees }

func (c *Compilation) SemanticModel(tree ir.SyntaxTree) ir.SemanticModel {
	if m, ok := c.models[tree.Path]; ok {
		return m
	}
	return NewModel()
}

func (c *Compilation) LookupType(canonicalName string) (ir.Type, bool) {
	t, ok := c.typesByName[canonicalName]
	return t, ok
}

func (c *Compilation) RootExceptionType() ir.Type { return c.rootException }

func (c *Compilation) DisposableInterfaces() (ir.Type, ir.Type) {
	return c.syncDisposable, c.asyncDisposable
}

func (c *Compilation) FinalizerSuppressionMethod() ir.Symbol { return c.suppressFinal }
