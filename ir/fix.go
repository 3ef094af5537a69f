package ir

// Document is a source file paired with its syntax tree root, as
// produced by a Compilation and as returned (possibly transformed) by a
// Fix (§3, §6.3). The core never performs file I/O on a Document; that
// is the host's job.
type Document struct {
	Path string
	Text string
	Root SyntaxNode
}

// Fix maps one Diagnostic to a rewritten Document. Applying a fix never
// fails: if Build's preconditions are not met by the diagnostic's
// anchor, it must return the input Document unchanged (§7).
type Fix struct {
	DiagnosticID   string
	Title          string
	EquivalenceKey string
	Build          func(Document, Diagnostic) Document
}

// Apply invokes the fix, returning the original document unchanged if
// Build is nil or the diagnostic id does not match.
func (f Fix) Apply(doc Document, diag Diagnostic) Document {
	if f.Build == nil || diag.ID != f.DiagnosticID {
		return doc
	}
	return f.Build(doc, diag)
}

// FixApplication pairs one selected Fix with the Diagnostic it resolves.
type FixApplication struct {
	Fix  Fix
	Diag Diagnostic
}

// ApplyBatch applies fixes to doc sequentially, re-deriving nothing
// itself — callers that need a fresh semantic model between
// applications (as required for a real "fix all" per §4.10) are
// expected to re-run analysis between calls; ApplyBatch just folds the
// already-selected fix/diagnostic pairs over the document in order.
func ApplyBatch(doc Document, pairs []FixApplication) Document {
	for _, p := range pairs {
		doc = p.Fix.Apply(doc, p.Diag)
	}
	return doc
}
