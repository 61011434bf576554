package decode

import (
	"context"
	"sync"

	"github.com/polyglot-cli/polyglot/internal/schema"
)

// Broadcast is the pull-based notification channel between the decoder
// and its readers. One Emit resolves every waiter registered since the
// previous event with the same record; a resolved waiter must call
// AwaitNext again to observe later events. Completion is monotonic:
// once Complete has run, AwaitNext never blocks again.
//
// The decoder is the only producer. Readers may call AwaitNext and
// Records from any goroutine.
type Broadcast struct {
	mu      sync.Mutex
	done    bool
	waiters []chan schema.Record
	records []schema.Record
}

func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

// AwaitNext blocks until the next Emit, Update, or Complete. It
// returns the event's record and ok=true, or ok=false for the
// terminal signal. Waiters are resolved in registration order. If the
// channel is already complete, or ctx ends first, AwaitNext returns
// immediately with ok=false; cancellation affects only the calling
// reader, never the channel.
func (b *Broadcast) AwaitNext(ctx context.Context) (schema.Record, bool) {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return schema.Record{}, false
	}
	ch := make(chan schema.Record, 1)
	b.waiters = append(b.waiters, ch)
	b.mu.Unlock()

	select {
	case rec, ok := <-ch:
		return rec, ok
	case <-ctx.Done():
		return schema.Record{}, false
	}
}

// Emit appends rec to the output sequence and wakes every pending
// waiter with it. Emit after Complete is a no-op.
func (b *Broadcast) Emit(rec schema.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.records = append(b.records, rec)
	b.notifyLocked(rec)
}

// Update replaces the single shared record of the output sequence and
// wakes every pending waiter with the new snapshot. It is the Single
// mode counterpart of Emit.
func (b *Broadcast) Update(rec schema.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	if len(b.records) == 0 {
		b.records = append(b.records, rec)
	} else {
		b.records[len(b.records)-1] = rec
	}
	b.notifyLocked(rec)
}

// Complete marks the stream finished and releases every pending waiter
// with the terminal signal. The transition is one-way; further calls
// are no-ops.
func (b *Broadcast) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	for _, ch := range b.waiters {
		close(ch)
	}
	b.waiters = nil
}

// Waiting reports how many AwaitNext calls are currently suspended.
func (b *Broadcast) Waiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters)
}

// Done reports whether Complete has run.
func (b *Broadcast) Done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Records returns a snapshot of the output sequence. Records are value
// copies; the returned slice is the caller's to slice and keep.
func (b *Broadcast) Records() []schema.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]schema.Record, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Broadcast) notifyLocked(rec schema.Record) {
	for _, ch := range b.waiters {
		ch <- rec
	}
	b.waiters = nil
}
