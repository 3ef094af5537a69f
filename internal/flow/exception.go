package flow

import (
	"regexp"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/callgraph"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var exceptionCrefPattern = regexp.MustCompile(`<exception\s+cref="([^"]+)"`)

// ParseThrowsDoc extracts the exception type names documented in doc's
// `<exception cref="...">` tags (ir.Method.Doc's convention, referenced
// from ir.Method's own doc comment). Callers resolve each name against
// the compilation with LookupType; a name that doesn't resolve is an
// input defect and is silently dropped by the caller, not by this
// parser.
func ParseThrowsDoc(doc string) []string {
	matches := exceptionCrefPattern.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ExceptionContracts supplies the "documented exception set" a call
// site contributes (§4.6), since ir has no doc-comment parser of its
// own (that belongs to the host, per §1's non-goals). Production hosts
// would back this with whatever contract metadata their platform
// exposes (XML doc `<exception>` tags, annotations, ...); this
// repository's reference implementation is ContractRegistry, populated
// explicitly by callers.
type ExceptionContracts interface {
	DocumentedThrows(m ir.Method) []ir.Type
}

// ContractRegistry is the reference ExceptionContracts.
type ContractRegistry struct {
	documented map[ir.Method][]ir.Type
}

// NewContractRegistry builds an empty ContractRegistry.
func NewContractRegistry() *ContractRegistry {
	return &ContractRegistry{documented: make(map[ir.Method][]ir.Type)}
}

// Document records that m's contract documents it as throwing types.
func (r *ContractRegistry) Document(m ir.Method, types ...ir.Type) *ContractRegistry {
	r.documented[m] = append(r.documented[m], types...)
	return r
}

func (r *ContractRegistry) DocumentedThrows(m ir.Method) []ir.Type { return r.documented[m] }

// Escape is one way an exception type can leave the analyzed method.
type Escape struct {
	Type    ir.Type
	Channel ir.EscapeChannel
	Site    ir.SyntaxNode
}

// MethodResult is ExceptionFlowAnalyzer's per-method output.
type MethodResult struct {
	Escapes            []Escape
	UnreachableCatches []ir.SyntaxNode
}

// ExceptionFlowAnalyzer implements §4.6: per-method computation of
// which exception types can escape, tagged with the channel (sync,
// async, or iterator-deferred) they escape through, plus a finding for
// catch clauses made unreachable by an earlier, broader catch.
type ExceptionFlowAnalyzer struct {
	facade         *facade.Facade
	exceptions     *classify.ExceptionClassifier
	graph          *callgraph.Graph
	contracts      ExceptionContracts
	maxCalleeDepth int
}

// NewExceptionFlowAnalyzer binds an analyzer to the classifiers,
// call graph, and contract source it needs. graph may be nil (calls
// then contribute only their documented exception set, never
// transitively visible throws); maxCalleeDepth bounds how far the
// analyzer follows the call graph into callees' own bodies (§4.6 "when
// CallGraph transitive depth ≤ a configured limit").
func NewExceptionFlowAnalyzer(fac *facade.Facade, exceptions *classify.ExceptionClassifier, graph *callgraph.Graph, contracts ExceptionContracts, maxCalleeDepth int) *ExceptionFlowAnalyzer {
	if contracts == nil {
		contracts = NewContractRegistry()
	}
	return &ExceptionFlowAnalyzer{
		facade:         fac,
		exceptions:     exceptions,
		graph:          graph,
		contracts:      contracts,
		maxCalleeDepth: maxCalleeDepth,
	}
}

// AnalyzeMethod computes method's escaping exception types.
func (a *ExceptionFlowAnalyzer) AnalyzeMethod(method ir.Method, model ir.SemanticModel) MethodResult {
	body, ok := method.Body()
	if !ok {
		return MethodResult{}
	}
	stmts := statementOperations(body, model)
	post := ir.EscapeSync
	switch {
	case bodyContainsYield(stmts):
		post = ir.EscapeIteratorDeferred
	case method.Modifiers().Has(ir.ModAsync):
		post = ir.EscapeAsync
	}
	w := &excWalker{analyzer: a, visiting: map[ir.Method]bool{method: true}, postSuspension: post}
	escapes := w.walkBlock(stmts, ir.EscapeSync, model)
	return MethodResult{Escapes: escapes, UnreachableCatches: w.unreachable}
}

type excWalker struct {
	analyzer       *ExceptionFlowAnalyzer
	visiting       map[ir.Method]bool
	postSuspension ir.EscapeChannel
	currentCatch   ir.Type
	calleeDepth    int
	unreachable    []ir.SyntaxNode
}

func (w *excWalker) walkBlock(stmts []ir.Operation, channel ir.EscapeChannel, model ir.SemanticModel) []Escape {
	var out []Escape
	for _, op := range stmts {
		esc, next := w.walkStmt(op, channel, model)
		out = append(out, esc...)
		channel = next
	}
	return out
}

// walkStmt returns the escapes contributed by op, plus the channel that
// applies to statements following op in the same block (only Await/
// Yield change it, from Sync to the method's post-suspension channel).
func (w *excWalker) walkStmt(op ir.Operation, channel ir.EscapeChannel, model ir.SemanticModel) ([]Escape, ir.EscapeChannel) {
	switch o := op.(type) {
	case *ir.ThrowOp:
		var t ir.Type
		if o.Expression != nil {
			t, _ = o.Expression.ResultType()
		} else {
			t = w.currentCatch
		}
		if t == nil {
			return nil, channel
		}
		return []Escape{{Type: t, Channel: channel, Site: o.Syntax()}}, channel
	case *ir.AwaitOp:
		return w.scanExpressionForCalls(o.Operand, channel, model), w.postSuspension
	case *ir.YieldOp:
		var esc []Escape
		if o.Value != nil {
			esc = w.scanExpressionForCalls(o.Value, channel, model)
		}
		return esc, w.postSuspension
	case *ir.ConditionalOp:
		var out []Escape
		out = append(out, w.scanExpressionForCalls(o.Condition, channel, model)...)
		out = append(out, w.walkBlock(o.Then, channel, model)...)
		out = append(out, w.walkBlock(o.Else, channel, model)...)
		return out, channel
	case *ir.TryOp:
		return w.walkTry(o, channel, model), channel
	case *ir.ReturnOp:
		if o.Value == nil {
			return nil, channel
		}
		return w.scanExpressionForCalls(o.Value, channel, model), channel
	default:
		return w.scanExpressionForCalls(op, channel, model), channel
	}
}

func (w *excWalker) walkTry(t *ir.TryOp, channel ir.EscapeChannel, model ir.SemanticModel) []Escape {
	tryEscapes := w.walkBlock(t.TryBody, channel, model)

	for i := range t.Catches {
		for j := i + 1; j < len(t.Catches); j++ {
			if w.shadows(t.Catches[i], t.Catches[j]) {
				w.unreachable = append(w.unreachable, t.Catches[j].Syntax)
			}
		}
	}

	var remaining []Escape
	for _, esc := range tryEscapes {
		if w.coveredByAny(esc.Type, t.Catches) {
			continue
		}
		remaining = append(remaining, esc)
	}

	for _, cc := range t.Catches {
		prev := w.currentCatch
		w.currentCatch = cc.CaughtType
		remaining = append(remaining, w.walkBlock(cc.Body, channel, model)...)
		w.currentCatch = prev
	}

	remaining = append(remaining, w.walkBlock(t.Finally, channel, model)...)
	return remaining
}

// shadows reports whether earlier makes later unreachable: earlier has
// no filter and catches everything later would catch.
func (w *excWalker) shadows(earlier, later ir.CatchClause) bool {
	if earlier.HasFilter {
		return false
	}
	if earlier.CaughtType == nil {
		return true
	}
	if later.CaughtType == nil {
		return false
	}
	return w.analyzer.exceptions.Catches(earlier.CaughtType, later.CaughtType) && earlier.CaughtType != later.CaughtType
}

// coveredByAny reports whether some non-filtered catch in catches would
// catch t. A filtered catch never removes the type from the escape set
// (§4.6: "a when-filter leaves the type in the escape set since the
// filter may be false").
func (w *excWalker) coveredByAny(t ir.Type, catches []ir.CatchClause) bool {
	for _, cc := range catches {
		if cc.HasFilter {
			continue
		}
		if w.analyzer.exceptions.Catches(cc.CaughtType, t) {
			return true
		}
	}
	return false
}

// scanExpressionForCalls finds every Invocation/ObjectCreation nested in
// an expression and folds in the exception types their callees may
// contribute.
func (w *excWalker) scanExpressionForCalls(op ir.Operation, channel ir.EscapeChannel, model ir.SemanticModel) []Escape {
	if op == nil {
		return nil
	}
	var out []Escape
	switch o := op.(type) {
	case *ir.InvocationOp:
		out = append(out, w.escapesFromCallee(o.Method, channel, model, w.calleeDepth)...)
	case *ir.ObjectCreationOp:
		out = append(out, w.escapesFromCallee(o.Constructor, channel, model, w.calleeDepth)...)
	}
	for _, child := range op.Children() {
		out = append(out, w.scanExpressionForCalls(child, channel, model)...)
	}
	return out
}

func (w *excWalker) escapesFromCallee(method ir.Method, channel ir.EscapeChannel, model ir.SemanticModel, depth int) []Escape {
	if method == nil {
		return nil
	}
	var out []Escape
	for _, t := range w.analyzer.contracts.DocumentedThrows(method) {
		out = append(out, Escape{Type: t, Channel: channel})
	}
	if w.analyzer.graph == nil || depth >= w.analyzer.maxCalleeDepth || w.visiting[method] {
		return out
	}
	body, ok := method.Body()
	if !ok {
		return out
	}
	w.visiting[method] = true
	w.calleeDepth = depth + 1
	defer func() {
		delete(w.visiting, method)
		w.calleeDepth = depth
	}()
	stmts := statementOperations(body, model)
	out = append(out, w.walkBlock(stmts, channel, model)...)
	return out
}
