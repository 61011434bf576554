package decode

import (
	"github.com/polyglot-cli/polyglot/internal/schema"
	"github.com/polyglot-cli/polyglot/internal/stream"
)

// Decoder drives one streamed response: raw fragments pass through to
// a display channel unmodified while the scanner and assembler turn
// the same fragments into records published on the broadcast channel.
// A Decoder is single-use; its buffer, in-progress record, and output
// sequence belong to one Run.
type Decoder struct {
	mode Mode
	scan *Scanner
	asm  *Assembler
	bus  *Broadcast
}

func NewDecoder(sc schema.Schema, mode Mode) *Decoder {
	return &Decoder{
		mode: mode,
		scan: NewScanner(sc.Labels),
		asm:  NewAssembler(sc, mode),
		bus:  NewBroadcast(),
	}
}

// Bus returns the broadcast channel readers subscribe to.
func (d *Decoder) Bus() *Broadcast { return d.bus }

// Records returns a snapshot of the output sequence so far.
func (d *Decoder) Records() []schema.Record { return d.bus.Records() }

// Run consumes the transport stream until exhaustion or error. Each
// fragment is forwarded to raw (when non-nil) before decoding, so live
// display never waits on parse progress; raw is closed when Run
// returns. On natural exhaustion Run performs the tail flush and then
// completes the broadcast channel. A transport error is returned
// immediately without completing the channel; the caller owns treating
// it as terminal.
func (d *Decoder) Run(chunks <-chan stream.Chunk, raw chan<- string) error {
	if raw != nil {
		defer close(raw)
	}
	for c := range chunks {
		if c.Err != nil {
			return c.Err
		}
		if c.Content == "" {
			continue
		}
		if raw != nil {
			raw <- c.Content
		}
		for _, v := range d.scan.Feed(c.Content) {
			d.put(v)
		}
	}
	d.finish()
	return nil
}

func (d *Decoder) put(v string) {
	rec, sealed := d.asm.Put(v)
	if d.mode == Single {
		d.bus.Update(rec)
		return
	}
	if sealed {
		d.bus.Emit(rec)
	}
}

// finish runs the tail flush exactly once and completes the channel.
// In Single mode the final state is re-emitted even when the flush
// salvaged nothing, so late readers see the finished record.
func (d *Decoder) finish() {
	if v, ok := d.scan.Flush(); ok {
		if d.mode == Single {
			d.asm.Put(v)
		} else if rec, sealed := d.asm.Put(v); sealed {
			d.bus.Emit(rec)
		}
	}
	if d.mode == Single {
		d.bus.Update(d.asm.Current())
	}
	d.bus.Complete()
}
