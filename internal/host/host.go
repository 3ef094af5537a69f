// Package host implements RuleHost (§4.7): rule registration and
// dispatch over a bounded worker pool, with per-type parallelism,
// totally-ordered start/end callbacks around a method's operations,
// cancellation, rule-fault isolation, and diagnostic deduplication.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/callgraph"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/flow"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// Host owns rule registration and drives a single Run over a
// compilation.
type Host struct {
	compilation ir.Compilation
	facade      *facade.Facade
	disposables *classify.DisposableClassifier
	exceptions  *classify.ExceptionClassifier
	disposalFlow *flow.DisposalFlowAnalyzer
	contracts   flow.ExceptionContracts

	config Config
	logger *slog.Logger

	rules []Rule

	graphOnce sync.Once
	graph     *callgraph.Graph
	graphCtx  context.Context

	excFlowOnce sync.Once
	excFlow     *flow.ExceptionFlowAnalyzer
}

// New builds a Host over compilation. contracts may be nil, in which
// case an empty flow.ContractRegistry is used.
func New(compilation ir.Compilation, config Config, contracts flow.ExceptionContracts) (*Host, error) {
	if compilation == nil {
		return nil, &ConfigError{Field: "Compilation", Reason: "must not be nil"}
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = flow.NewContractRegistry()
	}
	fac := facade.New(compilation)
	disposables := classify.NewDisposableClassifier(fac)
	exceptions := classify.NewExceptionClassifier(fac)
	return &Host{
		compilation:  compilation,
		facade:       fac,
		disposables:  disposables,
		exceptions:   exceptions,
		disposalFlow: flow.NewDisposalFlowAnalyzer(fac, disposables),
		contracts:    contracts,
		config:       config,
		logger:       config.logger(),
	}, nil
}

// WithMethods wires a classify.MethodLookup into the host's shared
// DisposableClassifier so DisposeMethod/DisposeAsyncMethod/HasFinalizer
// can see a type's real declared members (the structural half of §3's
// disposable invariant and the §4.8 finalizer/flag-pattern checks all
// depend on it). Without it the classifier still answers correctly for
// any type that declares the disposable interface directly, since
// Implements() needs no member list — only the structural fallback and
// the field/base-chain checks in ProtocolShapeRule need this wired.
// Callers typically pass the same Registry they also hand to
// disposal.NewProtocolShapeRule, since disposal.Registry already
// satisfies classify.MethodLookup.
func (h *Host) WithMethods(lookup classify.MethodLookup) *Host {
	h.disposables.WithMethods(lookup)
	return h
}

// Register adds rules to the host. Order among rules of the same phase
// is registration order; phases themselves are ordered per §4.7.
func (h *Host) Register(rules ...Rule) *Host {
	h.rules = append(h.rules, rules...)
	return h
}

func (h *Host) callGraph() *callgraph.Graph {
	h.graphOnce.Do(func() {
		ctx := h.graphCtx
		if ctx == nil {
			ctx = context.Background()
		}
		h.graph = callgraph.NewBuilder(h.compilation).Build(ctx)
	})
	return h.graph
}

func (h *Host) exceptionFlow() *flow.ExceptionFlowAnalyzer {
	h.excFlowOnce.Do(func() {
		h.excFlow = flow.NewExceptionFlowAnalyzer(h.facade, h.exceptions, h.callGraph(), h.contracts, h.config.maxCalleeDepth())
	})
	return h.excFlow
}

// Result is the outcome of one Run.
type Result struct {
	RunID       uuid.UUID
	Diagnostics []ir.Diagnostic
	Cancelled   bool
}

// Run executes every registered rule over the compilation's named
// types, in the phase order of §4.7: compilation-start, per-type
// (parallel, bounded by Config.Workers), compilation-end. On
// cancellation, partial results are discarded (§5).
func (h *Host) Run(ctx context.Context) (Result, error) {
	if err := h.config.validate(); err != nil {
		return Result{}, err
	}
	h.graphCtx = ctx

	runID := uuid.New()
	logger := h.logger.With("run_id", runID.String())
	logger.Info("run started", "rules", len(h.rules))

	snk := newSink()
	newRunContext := func(model ir.SemanticModel) *RunContext {
		return &RunContext{ctx: ctx, host: h, model: model, sink: snk}
	}

	for _, r := range h.rules {
		if sr, ok := r.(CompilationStartRule); ok {
			h.invoke(logger, snk, sr.ID(), ir.Span{}, func() { sr.OnCompilationStart(newRunContext(nil)) })
		}
	}

	type workItem struct {
		typ   ir.Type
		decl  ir.SyntaxNode
		model ir.SemanticModel
	}
	var items []workItem
	for _, tree := range h.compilation.SyntaxTrees() {
		model := h.compilation.SemanticModel(tree)
		for _, decl := range typeDeclarations(tree.Root) {
			t, ok := model.TypeOf(decl)
			if !ok {
				continue
			}
			items = append(items, workItem{typ: t, decl: decl, model: model})
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(h.config.workers())
	for _, item := range items {
		item := item
		g.Go(func() error {
			if ctx.Err() != nil { // cancellation point (a)
				return nil
			}
			h.processType(newRunContext(item.model), snk, logger, item.typ, item.decl)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		logger.Info("run cancelled")
		return Result{RunID: runID, Cancelled: true}, nil
	}

	for _, r := range h.rules {
		if er, ok := r.(CompilationEndRule); ok {
			h.invoke(logger, snk, er.ID(), ir.Span{}, func() { er.OnCompilationEnd(newRunContext(nil)) })
		}
	}

	diags := snk.finish()
	logger.Info("run finished", "diagnostics", len(diags))
	return Result{RunID: runID, Diagnostics: diags}, nil
}

func (h *Host) processType(rctx *RunContext, snk *sink, logger *slog.Logger, typ ir.Type, decl ir.SyntaxNode) {
	typeLoc := spanAt(decl.Pos())
	for _, r := range h.rules {
		if tr, ok := r.(TypeRule); ok {
			h.invoke(logger, snk, tr.ID(), typeLoc, func() { tr.OnType(rctx, typ) })
		}
	}

	for _, methodDecl := range methodsOfType(decl) {
		if rctx.ctx.Err() != nil { // cancellation point (c)
			return
		}
		owner, ok := rctx.model.SymbolFor(methodDecl)
		if !ok {
			continue
		}
		method, ok := owner.(ir.Method)
		if !ok {
			continue
		}
		h.processMethod(rctx, snk, logger, method, methodDecl)
	}
}

func (h *Host) processMethod(rctx *RunContext, snk *sink, logger *slog.Logger, method ir.Method, decl ir.SyntaxNode) {
	loc := spanAt(decl.Pos())

	for _, r := range h.rules {
		if br, ok := r.(OperationBlockRule); ok {
			h.invoke(logger, snk, br.ID(), loc, func() { br.OnOperationBlockStart(rctx, method) })
		}
	}

	if body, ok := method.Body(); ok {
		for _, op := range operationsIn(body, rctx.model) {
			opLoc := loc
			if syn := op.Syntax(); syn != nil {
				opLoc = spanAt(syn.Pos())
			}
			for _, r := range h.rules {
				orule, ok := r.(OperationRule)
				if !ok || !containsKind(orule.Kinds(), op.Kind()) {
					continue
				}
				h.invoke(logger, snk, orule.ID(), opLoc, func() { orule.OnOperation(rctx, op) })
			}
		}
	}

	for _, r := range h.rules {
		if br, ok := r.(OperationBlockRule); ok {
			h.invoke(logger, snk, br.ID(), loc, func() { br.OnOperationBlockEnd(rctx, method) })
		}
	}
}

// invoke runs fn, recovering a rule panic into a RULE_FAULTED
// diagnostic rather than aborting the run (§7 "Rule faults").
func (h *Host) invoke(logger *slog.Logger, snk *sink, ruleID string, loc ir.Span, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("rule faulted", "rule", ruleID, "panic", r)
			snk.add(RuleFaulted.New(loc, fmt.Sprintf("rule %s faulted: %v", ruleID, r), ruleID))
		}
	}()
	fn()
}

func spanAt(pos ir.Position) ir.Span {
	return ir.Span{File: pos.File, Start: pos.Offset, End: pos.Offset}
}

func containsKind(kinds []ir.OperationKind, k ir.OperationKind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

func typeDeclarations(root ir.SyntaxNode) []ir.SyntaxNode {
	var out []ir.SyntaxNode
	if root.Kind() == ir.NodeTypeDeclaration {
		out = append(out, root)
	}
	for _, child := range root.Children() {
		out = append(out, typeDeclarations(child)...)
	}
	return out
}

// methodsOfType returns every method declaration belonging to decl,
// including nested local functions, but excludes methods belonging to
// a nested type declaration (that type is its own work item).
func methodsOfType(decl ir.SyntaxNode) []ir.SyntaxNode {
	var out []ir.SyntaxNode
	for _, child := range decl.Children() {
		if child.Kind() == ir.NodeTypeDeclaration {
			continue
		}
		if child.Kind() == ir.NodeMethodDeclaration {
			out = append(out, child)
		}
		out = append(out, methodsOfType(child)...)
	}
	return out
}

// operationsIn returns every operation bound within body, excluding the
// bodies of nested local-function declarations (each is its own
// operation block, visited separately via methodsOfType).
func operationsIn(body ir.SyntaxNode, model ir.SemanticModel) []ir.Operation {
	var out []ir.Operation
	var walk func(node ir.SyntaxNode)
	walk = func(node ir.SyntaxNode) {
		if op, ok := model.OperationFor(node); ok {
			out = append(out, op)
		}
		for _, child := range node.Children() {
			if child.Kind() == ir.NodeMethodDeclaration {
				continue
			}
			walk(child)
		}
	}
	for _, child := range body.Children() {
		if child.Kind() == ir.NodeMethodDeclaration {
			continue
		}
		walk(child)
	}
	return out
}
