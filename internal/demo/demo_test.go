package demo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/demo"
)

func TestBuildProducesOneTreeWithTwoMethods(t *testing.T) {
	scenario := demo.Build()
	require.NotNil(t, scenario.Compilation)

	trees := scenario.Compilation.SyntaxTrees()
	require.Len(t, trees, 1)

	serviceDecl := trees[0].Root
	assert.Len(t, serviceDecl.Children(), 2, "Leaky and Risky method declarations")
}

func TestBuildRegistersPlatformAndServiceTypes(t *testing.T) {
	scenario := demo.Build()
	_, ok := scenario.Compilation.LookupType("Resource")
	assert.True(t, ok)
	_, ok = scenario.Compilation.LookupType("Service")
	assert.True(t, ok)
	_, ok = scenario.Compilation.LookupType("System.ArgumentException")
	assert.True(t, ok)
}

func TestBuildIsReproducible(t *testing.T) {
	// Two independent Build() calls must not share any mutable state
	// (fixture.NewPlatform's own doc promises a fresh Platform per call).
	a := demo.Build()
	b := demo.Build()
	assert.NotSame(t, a.Compilation, b.Compilation)
}
