// Package skid provides a two-slot elastic output stage for streaming
// interfaces. It decouples a producer from a stalling consumer by one
// beat without losing data and without a combinational path from the
// consumer's ready signal back to the producer: the producer-facing
// ready signal is registered, computed one cycle ahead.
package skid

// Buffer is a two-slot skid buffer: a primary output register plus one
// overflow register. Beats leave in the order they entered, none
// dropped, none duplicated, under any consumer stall pattern.
//
// All state advances in Tick. Between ticks, OutputValid/Output expose
// the beat currently presented to the consumer and InputReady exposes
// the registered backpressure signal for the producer.
type Buffer[T any] struct {
	out      T
	outValid bool

	tmp      T
	tmpValid bool

	inReady bool
}

// New creates an empty Buffer. Both slots are free, so the input side
// starts ready.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{inReady: true}
}

// InputReady reports whether the producer may present a beat this
// cycle. It is a registered signal: it was computed from last cycle's
// state, so reading it never creates a same-cycle dependency on the
// consumer's ready.
func (b *Buffer[T]) InputReady() bool {
	return b.inReady
}

// OutputValid reports whether a beat is presented to the consumer this
// cycle.
func (b *Buffer[T]) OutputValid() bool {
	return b.outValid
}

// Output returns the beat presented to the consumer this cycle. Only
// meaningful while OutputValid is true.
func (b *Buffer[T]) Output() T {
	return b.out
}

// Tick advances the buffer by one cycle. in/inValid is the beat the
// producer presents this cycle (accepted only if InputReady was true),
// and outReady is the consumer's ready signal for this cycle. It
// returns whether the input beat was accepted.
func (b *Buffer[T]) Tick(in T, inValid bool, outReady bool) bool {
	accepted := b.inReady && inValid

	// Next-cycle ready, from current-cycle state only. Asserted when
	// the consumer is draining, or when both slots will have room.
	nextInReady := outReady ||
		(!b.tmpValid && (!b.outValid || !inValid))

	if b.inReady {
		if outReady || !b.outValid {
			// Output slot is (or becomes) free: load the input
			// straight into it, possibly leaving it empty.
			b.out = in
			b.outValid = inValid
		} else if inValid {
			// Consumer stalled with the output slot full: park the
			// input in the overflow slot.
			b.tmp = in
			b.tmpValid = true
		}
	} else if outReady {
		// Input blocked, consumer draining: shift the overflow slot
		// into the output slot.
		b.out = b.tmp
		b.outValid = b.tmpValid
		var zero T
		b.tmp = zero
		b.tmpValid = false
	}

	b.inReady = nextInReady

	return accepted
}

// Reset clears both slots and re-asserts input ready. Data registers
// are not scrubbed beyond their validity flags being dropped.
func (b *Buffer[T]) Reset() {
	var zero T
	b.out = zero
	b.outValid = false
	b.tmp = zero
	b.tmpValid = false
	b.inReady = true
}
