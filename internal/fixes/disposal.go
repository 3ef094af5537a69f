package fixes

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rewrite"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

func disposalFixes(c Context) []ir.Fix {
	return []ir.Fix{
		rewriteFix("DISP001", "Wrap in scoped acquisition", "disp.scoped-acquisition", ir.NodeLocalDeclaration, scopedAcquisition),
		rewriteFix("DISP004", "Wrap in scoped acquisition", "disp.scoped-acquisition", ir.NodeLocalDeclaration, scopedAcquisition),
		rewriteFix("DISP006", "Wrap in scoped acquisition", "disp.scoped-acquisition", ir.NodeLocalDeclaration, scopedAcquisition),
		rewriteFix("DISP024", "Wrap in scoped acquisition", "disp.scoped-acquisition", ir.NodeLocalDeclaration, scopedAcquisition),
		rewriteFix("DISP025", "Wrap in scoped acquisition", "disp.scoped-acquisition", ir.NodeLocalDeclaration, scopedAcquisition),
		rewriteFix("DISP003", "Guard with null-conditional dispose", "disp.null-conditional-guard", ir.NodeInvocation, rewrite.GuardWithNullConditional),
		rewriteFix("DISP019", "Suppress the finalizer from Dispose", "disp.suppress-finalizer", ir.NodeBlock, rewrite.InsertFinalizerSuppression),
		{
			DiagnosticID:   "DISP007",
			Title:          "Implement the disposable protocol",
			EquivalenceKey: "disp.add-protocol",
			Build: func(doc ir.Document, diag ir.Diagnostic) ir.Document {
				loc, ok := resolve(doc.Root, diag.Location, ir.NodeTypeDeclaration)
				if !ok {
					return doc
				}
				method := "Dispose"
				fieldCalls := []string{"Dispose"}
				if len(diag.MessageArgs) > 0 {
					fieldCalls = []string{diag.MessageArgs[0]}
				}
				return rewrite.AddProtocolImplementation(doc, loc, method, fieldCalls)
			},
		},
		{
			DiagnosticID:   "DISP018",
			Title:          "Wrap remaining constructor body in failure recovery",
			EquivalenceKey: "disp.constructor-recovery",
			Build: func(doc ir.Document, diag ir.Diagnostic) ir.Document {
				block, index, ok := enclosingBlockIndex(doc.Root, diag.Location)
				if !ok {
					return doc
				}
				return rewrite.WrapConstructorInFailureRecovery(doc, spanOf(block), index+1)
			},
		},
	}
}

func scopedAcquisition(doc ir.Document, anchor ir.Span) ir.Document {
	return rewrite.WrapInScopedAcquisition(doc, anchor)
}
