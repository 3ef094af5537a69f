package throws_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/throws"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// TestUnobservedTaskRule_DiscardedTaskResult matches THROWS011: a
// statement-position call whose result type reads as task-like is
// never awaited or assigned.
func TestUnobservedTaskRule_DiscardedTaskResult(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)
	taskType := fixture.NewType(ir.KindClass, "Task", plat.Object).WithQualifiedName("System.Threading.Tasks.Task")

	callNode := fixture.NewNode(ir.NodeInvocation, testPos(10))
	body := fixture.NewNode(ir.NodeBlock, testPos(0), callNode)

	method := fixture.NewMethod("FireAndForget", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	model := fixture.NewModel()
	callOp := ir.NewInvocationOp(ir.Common{Syntax: callNode, ResultType: taskType}, nil, nil, nil, false)
	model.BindOperation(callNode, callOp)

	comp := buildMethodCompilation(plat, []*fixture.Type{taskType}, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.UnobservedTaskRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "THROWS011", result.Diagnostics[0].ID)
}

// TestContractDocRule_UndocumentedEscapeIsFlagged matches THROWS002:
// a method that can let an exception escape but documents no
// `<exception cref="...">` tags at all.
func TestContractDocRule_UndocumentedEscapeIsFlagged(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	throwNode := fixture.NewNode(ir.NodeThrow, testPos(10))
	body := fixture.NewNode(ir.NodeBlock, testPos(0), throwNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).WithContainingType(service).WithBlockBody(body)

	model := fixture.NewModel()
	creationOp := ir.NewObjectCreationOp(ir.Common{ResultType: plat.Exception}, plat.Exception, nil, nil)
	throwOp := ir.NewThrowOp(ir.Common{Syntax: throwNode}, creationOp)
	model.BindOperation(throwNode, throwOp)

	comp := buildMethodCompilation(plat, nil, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.ContractDocRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	got := ids(result.Diagnostics)
	assert.Contains(t, got, "THROWS002")
}

// TestContractDocRule_DocumentedEscapeIsNotFlagged checks that a
// matching `<exception cref>` tag on the method's own Doc suppresses
// both THROWS001 and THROWS002 for that escape.
func TestContractDocRule_DocumentedEscapeIsNotFlagged(t *testing.T) {
	plat := fixture.NewPlatform()
	service := fixture.NewType(ir.KindClass, "Service", plat.Object)

	throwNode := fixture.NewNode(ir.NodeThrow, testPos(10))
	body := fixture.NewNode(ir.NodeBlock, testPos(0), throwNode)

	method := fixture.NewMethod("Risky", ir.MethodOrdinary).
		WithContainingType(service).
		WithBlockBody(body).
		WithDoc(`<exception cref="System.Exception">always</exception>`)

	model := fixture.NewModel()
	creationOp := ir.NewObjectCreationOp(ir.Common{ResultType: plat.Exception}, plat.Exception, nil, nil)
	throwOp := ir.NewThrowOp(ir.Common{Syntax: throwNode}, creationOp)
	model.BindOperation(throwNode, throwOp)

	comp := buildMethodCompilation(plat, []*fixture.Type{plat.Exception}, service, method, model)

	h, err := host.New(comp, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(throws.ContractDocRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}
