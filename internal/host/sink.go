package host

import (
	"sort"
	"sync"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// RuleFaulted is the synthetic descriptor the host reports when a rule
// callback panics (§7 "Rule faults").
var RuleFaulted = ir.Descriptor{
	ID:       "RULE_FAULTED",
	Title:    "Rule faulted",
	Category: "host",
	Severity: ir.SeverityWarning,
}

// sink is the concurrent-safe diagnostic collector every RunContext
// reports into.
type sink struct {
	mu    sync.Mutex
	diags []ir.Diagnostic
}

func newSink() *sink { return &sink{} }

func (s *sink) add(d ir.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

// finish returns the deduplicated, sorted diagnostic list (§4.7
// "Deduplication: two diagnostics with identical (id, location,
// message-arguments) are coalesced").
func (s *sink) finish() []ir.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.diags, func(i, j int) bool {
		a, b := s.diags[i], s.diags[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Start != b.Location.Start {
			return a.Location.Start < b.Location.Start
		}
		return a.ID < b.ID
	})

	seen := make(map[string]bool, len(s.diags))
	out := make([]ir.Diagnostic, 0, len(s.diags))
	for _, d := range s.diags {
		key := d.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
