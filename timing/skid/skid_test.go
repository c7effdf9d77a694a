package skid

import (
	"math/rand"
	"testing"
)

// drive presents the producer sequence 0..n-1 into the buffer, holding
// each beat until it is accepted, with consumer readiness decided per
// cycle by ready(). It returns the delivered sequence.
func drive(t *testing.T, b *Buffer[int], n int, ready func(cycle int) bool) []int {
	t.Helper()

	var delivered []int
	next := 0

	for cycle := 0; cycle < 100*n+100; cycle++ {
		outReady := ready(cycle)

		if b.OutputValid() && outReady {
			delivered = append(delivered, b.Output())
		}

		inValid := next < n
		accepted := b.Tick(next, inValid, outReady)
		if accepted {
			next++
		}

		if len(delivered) == n && next == n && !b.OutputValid() {
			return delivered
		}
	}

	t.Fatalf("buffer did not drain: delivered %d of %d", len(delivered), n)
	return nil
}

func checkSequence(t *testing.T, got []int, n int) {
	t.Helper()

	if len(got) != n {
		t.Fatalf("delivered %d beats, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("beat %d has value %d, want %d", i, v, i)
		}
	}
}

func TestAlwaysReadyConsumer(t *testing.T) {
	b := New[int]()
	got := drive(t, b, 32, func(int) bool { return true })
	checkSequence(t, got, 32)
}

func TestNeverLosesBeatsUnderPeriodicStall(t *testing.T) {
	for period := 2; period <= 7; period++ {
		b := New[int]()
		got := drive(t, b, 48, func(cycle int) bool {
			return cycle%period != 0
		})
		checkSequence(t, got, 48)
	}
}

func TestLongStallMidStream(t *testing.T) {
	b := New[int]()
	got := drive(t, b, 16, func(cycle int) bool {
		return cycle < 5 || cycle >= 25
	})
	checkSequence(t, got, 16)
}

func TestRandomStallPatterns(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		b := New[int]()
		got := drive(t, b, 64, func(int) bool {
			return rng.Intn(3) != 0
		})
		checkSequence(t, got, 64)
	}
}

func TestInputReadyIsRegistered(t *testing.T) {
	b := New[int]()

	if !b.InputReady() {
		t.Fatal("empty buffer must start ready")
	}

	// Fill the output slot, then stall the consumer and fill the
	// overflow slot. Ready must only drop one cycle after both slots
	// are committed, never combinationally within the stalling cycle.
	b.Tick(1, true, false)
	if !b.InputReady() {
		t.Fatal("ready must stay up with the overflow slot free")
	}

	b.Tick(2, true, false)
	if b.InputReady() {
		t.Fatal("ready must drop once both slots are occupied")
	}

	// Draining one beat restores ready on the following cycle.
	b.Tick(0, false, true)
	if !b.InputReady() {
		t.Fatal("ready must recover after the consumer drains a beat")
	}
}

func TestBeatNotAcceptedWhileStalled(t *testing.T) {
	b := New[int]()
	b.Tick(1, true, false)
	b.Tick(2, true, false)

	if b.Tick(3, true, false) {
		t.Fatal("beat must not be accepted while the buffer is full")
	}
	if b.Output() != 1 {
		t.Fatalf("output slot corrupted: got %d, want 1", b.Output())
	}
}

func TestReset(t *testing.T) {
	b := New[int]()
	b.Tick(1, true, false)
	b.Tick(2, true, false)

	b.Reset()

	if b.OutputValid() {
		t.Fatal("reset must clear the output slot")
	}
	if !b.InputReady() {
		t.Fatal("reset must re-assert input ready")
	}

	got := drive(t, b, 8, func(int) bool { return true })
	checkSequence(t, got, 8)
}
