package decode

import "github.com/polyglot-cli/polyglot/internal/schema"

// Mode selects the record lifecycle of a decode run.
type Mode int

const (
	// List seals a record each time a full field cycle completes and
	// opens a fresh one for the next cycle.
	List Mode = iota
	// Single keeps one record for the whole stream; every value
	// overwrites the field at the current cyclic position.
	Single
)

// Assembler maps the unbounded sequence of extracted values onto
// fixed-width records. The destination field of a value is its global
// index modulo the schema length; the index is explicit state, never
// derived from field iteration order.
type Assembler struct {
	schema schema.Schema
	mode   Mode
	index  int
	cur    schema.Record
}

func NewAssembler(sc schema.Schema, mode Mode) *Assembler {
	return &Assembler{schema: sc, mode: mode}
}

// Put assigns value to the current cyclic position and advances the
// index. It returns a snapshot of the record after the write and
// whether the value completed a full cycle. In List mode a completed
// cycle also opens the next record; in Single mode the record
// persists.
func (a *Assembler) Put(value string) (schema.Record, bool) {
	n := a.schema.Len()
	a.schema.Assign(&a.cur, a.index%n, value)
	a.index++
	sealed := a.index%n == 0
	snap := a.cur
	if sealed && a.mode == List {
		a.cur = schema.Record{Seq: snap.Seq + 1}
	}
	return snap, sealed
}

// Current returns a snapshot of the in-progress record.
func (a *Assembler) Current() schema.Record { return a.cur }

// MidCycle reports whether the current record has at least one field
// written but is not yet complete.
func (a *Assembler) MidCycle() bool { return a.index%a.schema.Len() != 0 }
