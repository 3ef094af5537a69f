package throws

import (
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descAsyncNamedSyncThrow = warning("THROWS029", "Async-named method throws synchronously despite not being async")
	descManualTaskSyncThrow = warning("THROWS030", "Manually implemented task-returning method throws synchronously")
)

// AsyncShapeThrowsRule flags two ways a method's name or declared
// return shape promises deferred, task-observed exceptions while its
// body actually throws synchronously at the call site. THROWS029 is the
// naming promise: an "*Async" method that is neither `async` nor
// task-returning still throws directly. THROWS030 is the stronger
// shape promise: a method that manually returns a task type (without
// the `async` modifier, so the compiler never wraps its exceptions for
// it) throws directly instead of returning a faulted task.
type AsyncShapeThrowsRule struct{}

func (AsyncShapeThrowsRule) ID() string { return "throws.async-shape" }

func (AsyncShapeThrowsRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descAsyncNamedSyncThrow, descManualTaskSyncThrow}
}

func (AsyncShapeThrowsRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (AsyncShapeThrowsRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	if m.Modifiers().Has(ir.ModAsync) {
		return
	}
	body, ok := m.Body()
	if !ok {
		return
	}
	throws := throwOpsIn(statementOperations(body, ctx.Model()))
	if len(throws) == 0 {
		return
	}

	rt, hasRt := m.ReturnType()
	taskLike := hasRt && rt != nil && isTaskLikeName(rt.DisplayName())
	loc := span(throws[0].Syntax())

	switch {
	case taskLike:
		ctx.Report(descManualTaskSyncThrow.New(loc,
			"this method returns a task type but isn't async, so this throw escapes synchronously instead of faulting the returned task"))
	case strings.HasSuffix(m.Name(), "Async"):
		ctx.Report(descAsyncNamedSyncThrow.New(loc,
			"this method's name suggests deferred, awaited failure, but it isn't async or task-returning and throws synchronously"))
	}
}
