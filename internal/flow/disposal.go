package flow

import (
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// DisposalState is a local's tri-state disposal lattice value (§4.5),
// plus StateNone for "not live on this path".
type DisposalState int

const (
	StateNone DisposalState = iota
	StateCreated
	StateDisposed
	StateEscaped
)

// Classification is the per-local verdict DisposalFlowAnalyzer reports.
type Classification int

const (
	Clean Classification = iota
	Leaked
	LeakedOnSomePath
	MaybeConditionallyDisposed
)

func (c Classification) String() string {
	switch c {
	case Clean:
		return "clean"
	case Leaked:
		return "leaked"
	case LeakedOnSomePath:
		return "leaked-on-some-path"
	case MaybeConditionallyDisposed:
		return "maybe-conditionally-disposed"
	default:
		return "unknown"
	}
}

// LocalResult is one tracked local's final verdict.
type LocalResult struct {
	Local          ir.Symbol
	Classification Classification
}

// DisposalFlowAnalyzer implements §4.5's algorithm.
type DisposalFlowAnalyzer struct {
	facade      *facade.Facade
	disposables *classify.DisposableClassifier
}

// NewDisposalFlowAnalyzer binds an analyzer to the classifiers it needs
// to recognize disposable types and disposal calls.
func NewDisposalFlowAnalyzer(fac *facade.Facade, disposables *classify.DisposableClassifier) *DisposalFlowAnalyzer {
	return &DisposalFlowAnalyzer{facade: fac, disposables: disposables}
}

// AnalyzeMethod runs the disposal-flow pass over method's body and
// returns one LocalResult per tracked local, ordered by declaration
// discovery order.
func (a *DisposalFlowAnalyzer) AnalyzeMethod(method ir.Method, model ir.SemanticModel) []LocalResult {
	body, ok := method.Body()
	if !ok {
		return nil
	}
	w := &disposalWalker{disposables: a.disposables, allLocals: map[ir.Symbol]bool{}}
	stmts := statementOperations(body, model)
	final := w.walkBlock(stmts, map[ir.Symbol]DisposalState{})
	if final != nil {
		w.exits = append(w.exits, final)
	}
	return classifyLocals(w.order, w.allLocals, w.exits)
}

type disposalWalker struct {
	disposables *classify.DisposableClassifier
	allLocals   map[ir.Symbol]bool
	order       []ir.Symbol
	exits       []map[ir.Symbol]DisposalState
}

func (w *disposalWalker) track(local ir.Symbol) {
	if !w.allLocals[local] {
		w.allLocals[local] = true
		w.order = append(w.order, local)
	}
}

// walkBlock walks stmts in order against state, returning the state at
// the end of the block, or nil if every path through stmts exits early
// (return/throw) — the caller must treat the remainder of its own block
// as unreachable.
func (w *disposalWalker) walkBlock(stmts []ir.Operation, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	for _, op := range stmts {
		state = w.walkStmt(op, state)
		if state == nil {
			return nil
		}
	}
	return state
}

func (w *disposalWalker) walkStmt(op ir.Operation, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	switch o := op.(type) {
	case *ir.VariableDeclaratorOp:
		return w.trackCreation(o.Local, o.Initializer, state)
	case *ir.AssignmentOp:
		return w.walkAssignment(o, state)
	case *ir.InvocationOp:
		w.applyDisposalCall(o, state)
		return state
	case *ir.ScopedAcquisitionOp:
		inner := &disposalWalker{disposables: w.disposables, allLocals: map[ir.Symbol]bool{}}
		bodyState := inner.walkBlock(o.Body, cloneState(state))
		w.exits = append(w.exits, inner.exits...)
		for _, local := range inner.order {
			w.track(local)
		}
		if bodyState == nil {
			return nil
		}
		return bodyState
	case *ir.ReturnOp:
		final := cloneState(state)
		if o.Value != nil {
			w.scanExpressionForEscapesAndDisposal(o.Value, final)
			w.markEscape(o.Value, final)
		}
		w.exits = append(w.exits, final)
		return nil
	case *ir.ThrowOp:
		final := cloneState(state)
		if o.Expression != nil {
			w.scanExpressionForEscapesAndDisposal(o.Expression, final)
		}
		w.exits = append(w.exits, final)
		return nil
	case *ir.ConditionalOp:
		return w.walkConditional(o, state)
	case *ir.TryOp:
		return w.walkTry(o, state)
	default:
		w.scanExpressionForEscapesAndDisposal(op, state)
		return state
	}
}

func (w *disposalWalker) trackCreation(local ir.Symbol, init ir.Operation, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	if oc, ok := init.(*ir.ObjectCreationOp); ok && w.disposables.IsAnyDisposable(oc.Type) {
		state[local] = StateCreated
		w.track(local)
	}
	if init != nil {
		w.scanExpressionForEscapesAndDisposal(init, state)
	}
	return state
}

func (w *disposalWalker) walkAssignment(a *ir.AssignmentOp, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	w.scanExpressionForEscapesAndDisposal(a.Value, state)
	switch target := a.Target.(type) {
	case *ir.LocalReferenceOp:
		if _, tracked := state[target.Local]; tracked && isNilLiteral(a.Value) {
			state[target.Local] = StateDisposed
			return state
		}
		if oc, ok := a.Value.(*ir.ObjectCreationOp); ok && w.disposables.IsAnyDisposable(oc.Type) {
			state[target.Local] = StateCreated
			w.track(target.Local)
		}
	case *ir.FieldReferenceOp:
		if local, ok := localOf(a.Value); ok {
			if _, tracked := state[local]; tracked {
				state[local] = StateEscaped
			}
		}
	case *ir.PropertyReferenceOp:
		if local, ok := localOf(a.Value); ok {
			if _, tracked := state[local]; tracked {
				state[local] = StateEscaped
			}
		}
	}
	return state
}

func (w *disposalWalker) walkConditional(c *ir.ConditionalOp, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	w.scanExpressionForEscapesAndDisposal(c.Condition, state)
	thenState := w.walkBlock(c.Then, cloneState(state))
	var elseState map[ir.Symbol]DisposalState
	if c.Else != nil {
		elseState = w.walkBlock(c.Else, cloneState(state))
	} else {
		elseState = cloneState(state)
	}
	return mergeAll(nonNilStates(thenState, elseState))
}

// walkTry approximates try/catch/finally by walking catch bodies from
// the try's entry snapshot (conservative: a catch may run after any
// prefix of the try body executed) and applying the finally block to
// both the normal fallthrough and every path that exited from inside
// the try/catch region, since a finally always runs before control
// actually leaves the protected region.
func (w *disposalWalker) walkTry(t *ir.TryOp, state map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	entrySnapshot := cloneState(state)
	inner := &disposalWalker{disposables: w.disposables, allLocals: map[ir.Symbol]bool{}}

	tryState := inner.walkBlock(t.TryBody, cloneState(state))
	var fallthroughs []map[ir.Symbol]DisposalState
	if tryState != nil {
		fallthroughs = append(fallthroughs, tryState)
	}
	for _, cc := range t.Catches {
		cs := inner.walkBlock(cc.Body, cloneState(entrySnapshot))
		if cs != nil {
			fallthroughs = append(fallthroughs, cs)
		}
	}

	for _, local := range inner.order {
		w.track(local)
	}

	merged := mergeAll(fallthroughs)
	var result map[ir.Symbol]DisposalState
	if merged != nil {
		result = w.walkBlock(t.Finally, merged)
	}
	for _, exitState := range inner.exits {
		finallyApplied := w.walkBlock(t.Finally, cloneState(exitState))
		if finallyApplied != nil {
			w.exits = append(w.exits, finallyApplied)
		}
	}
	return result
}

func (w *disposalWalker) applyDisposalCall(inv *ir.InvocationOp, state map[ir.Symbol]DisposalState) {
	if inv.Target != nil {
		w.scanExpressionForEscapesAndDisposal(inv.Target, state)
	}
	if w.disposables.IsDisposalCall(inv) {
		if local, ok := localOf(inv.Target); ok {
			if _, tracked := state[local]; tracked {
				state[local] = StateDisposed
			}
		}
	}
	w.scanArgumentsForEscape(inv, state)
}

func (w *disposalWalker) scanArgumentsForEscape(inv *ir.InvocationOp, state map[ir.Symbol]DisposalState) {
	for _, arg := range inv.Arguments {
		ap, ok := arg.(*ir.ArgumentPassingOp)
		if !ok {
			w.scanExpressionForEscapesAndDisposal(arg, state)
			continue
		}
		w.scanExpressionForEscapesAndDisposal(ap.Value, state)
		local, ok := localOf(ap.Value)
		if !ok {
			continue
		}
		if _, tracked := state[local]; !tracked {
			continue
		}
		if isOwnershipTransfer(ap.Parameter.Name, inv.Method) {
			state[local] = StateEscaped
		}
	}
}

func (w *disposalWalker) markEscape(value ir.Operation, state map[ir.Symbol]DisposalState) {
	local, ok := localOf(value)
	if !ok {
		return
	}
	if _, tracked := state[local]; tracked {
		state[local] = StateEscaped
	}
}

// scanExpressionForEscapesAndDisposal is the fallback for expressions
// that are not one of the statement-level shapes walkStmt handles
// directly (e.g. a disposal call nested inside an initializer). It
// never forks or merges state: it only attributes disposal/escape
// effects found along the way.
func (w *disposalWalker) scanExpressionForEscapesAndDisposal(op ir.Operation, state map[ir.Symbol]DisposalState) {
	if op == nil {
		return
	}
	if inv, ok := op.(*ir.InvocationOp); ok {
		w.applyDisposalCall(inv, state)
		return
	}
	for _, child := range op.Children() {
		w.scanExpressionForEscapesAndDisposal(child, state)
	}
}

var ownershipHintSubstrings = []string{"take", "own", "adopt", "add", "register", "transfer"}
var ownershipNamePrefixes = []string{"Add", "Take", "Adopt", "Register"}

// isOwnershipTransfer applies §4.5 step 4's ownership-transfer hint
// rule: the formal parameter's name matches one of a fixed set of
// case-insensitive substrings, or the callee's own name begins with one
// of a fixed set of prefixes.
func isOwnershipTransfer(paramName string, method ir.Method) bool {
	lower := strings.ToLower(paramName)
	for _, hint := range ownershipHintSubstrings {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	if method == nil {
		return false
	}
	name := method.Name()
	for _, prefix := range ownershipNamePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func cloneState(s map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	out := make(map[ir.Symbol]DisposalState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func nonNilStates(states ...map[ir.Symbol]DisposalState) []map[ir.Symbol]DisposalState {
	var out []map[ir.Symbol]DisposalState
	for _, s := range states {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// mergeAll unions the key sets of maps and combines each local's value
// across all of them via the join-semilattice order Disposed < Escaped
// < Created, with StateNone acting as the identity element (a local not
// live on a given path never contaminates the merge — §4.5 step 5).
func mergeAll(maps []map[ir.Symbol]DisposalState) map[ir.Symbol]DisposalState {
	if len(maps) == 0 {
		return nil
	}
	if len(maps) == 1 {
		return cloneState(maps[0])
	}
	keys := map[ir.Symbol]bool{}
	for _, m := range maps {
		for k := range m {
			keys[k] = true
		}
	}
	out := make(map[ir.Symbol]DisposalState, len(keys))
	for k := range keys {
		acc := StateNone
		for _, m := range maps {
			acc = mergeState(acc, m[k])
		}
		out[k] = acc
	}
	return out
}

func mergeState(a, b DisposalState) DisposalState {
	if a == StateNone {
		return b
	}
	if b == StateNone {
		return a
	}
	if stateRank(a) >= stateRank(b) {
		return a
	}
	return b
}

func stateRank(s DisposalState) int {
	switch s {
	case StateDisposed:
		return 0
	case StateEscaped:
		return 1
	case StateCreated:
		return 2
	default:
		return -1
	}
}

// classifyLocals folds every exit path's final state for each tracked
// local into one of the four output classifications (§4.5 Output).
func classifyLocals(order []ir.Symbol, allLocals map[ir.Symbol]bool, exits []map[ir.Symbol]DisposalState) []LocalResult {
	out := make([]LocalResult, 0, len(order))
	for _, local := range order {
		if !allLocals[local] {
			continue
		}
		var sawCreated, sawDisposed, sawEscaped bool
		for _, ex := range exits {
			switch ex[local] {
			case StateCreated:
				sawCreated = true
			case StateDisposed:
				sawDisposed = true
			case StateEscaped:
				sawEscaped = true
			}
		}
		out = append(out, LocalResult{Local: local, Classification: classifyOutcome(sawCreated, sawDisposed, sawEscaped)})
	}
	return out
}

func classifyOutcome(created, disposed, escaped bool) Classification {
	switch {
	case created && !disposed && !escaped:
		return Leaked
	case created && (disposed || escaped):
		return LeakedOnSomePath
	case !created && disposed && escaped:
		return MaybeConditionallyDisposed
	default:
		return Clean
	}
}
