package ir

import "strconv"

// Diagnostic is the single output unit of a rule, per spec §3.
type Diagnostic struct {
	ID             string
	Title          string
	Message        string
	Severity       Severity
	Category       string
	Location       Span
	AuxLocations   []Span
	MessageArgs    []string
}

// Descriptor is the static, reusable part of a Diagnostic family — a
// rule may register several Descriptors sharing one ID to carry
// different titles/messages for distinct sub-conditions (§9 open
// question on colliding IDs).
type Descriptor struct {
	ID       string
	Title    string
	Category string
	Severity Severity
}

// New builds a concrete Diagnostic from the descriptor, a location, and
// positional message arguments substituted into a message template.
func (d Descriptor) New(loc Span, message string, args ...string) Diagnostic {
	return Diagnostic{
		ID:          d.ID,
		Title:       d.Title,
		Message:     message,
		Severity:    d.Severity,
		Category:    d.Category,
		Location:    loc,
		MessageArgs: args,
	}
}

// Key returns the deduplication key used by the host (§4.7): identical
// (ID, Location, MessageArgs) diagnostics are coalesced.
func (d Diagnostic) Key() string {
	key := d.ID + "|" + d.Location.File + "|" + strconv.Itoa(d.Location.Start) + "|" + strconv.Itoa(d.Location.End)
	for _, a := range d.MessageArgs {
		key += "|" + a
	}
	return key
}
