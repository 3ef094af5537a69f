package throws

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descMissingExceptionSuffix = warning("THROWS008", "Exception type name lacks the canonical suffix")
	descMisleadingExceptionName = warning("THROWS018", "Type name ends in Exception but the type isn't one")
)

// ExceptionNamingRule checks the naming convention in both directions:
// a genuine exception type must end with "Exception" (THROWS008), and a
// type that merely looks like one by name but doesn't derive from the
// root exception type is equally misleading to a reader (THROWS018).
type ExceptionNamingRule struct{}

func (ExceptionNamingRule) ID() string { return "throws.exception-naming" }

func (ExceptionNamingRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descMissingExceptionSuffix, descMisleadingExceptionName}
}

func (ExceptionNamingRule) OnType(ctx *host.RunContext, t ir.Type) {
	isException := ctx.Exceptions().IsExceptionType(t)
	named := hasExceptionSuffix(t.DisplayName())
	switch {
	case isException && !named:
		ctx.Report(descMissingExceptionSuffix.New(ir.Span{},
			fmt.Sprintf("%s derives from the exception hierarchy but its name doesn't end in \"Exception\"", t.DisplayName()),
			t.DisplayName()))
	case !isException && named:
		ctx.Report(descMisleadingExceptionName.New(ir.Span{},
			fmt.Sprintf("%s is named like an exception type but does not derive from the exception hierarchy", t.DisplayName()),
			t.DisplayName()))
	}
}
