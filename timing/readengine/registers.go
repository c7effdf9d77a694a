package readengine

// streamCommand is the per-descriptor handoff from the command issuer
// to the stream sequencer. At most one is in flight at a time; the two
// state machines share no other state.
type streamCommand struct {
	// offsetWords is the word offset of the first valid word within
	// the first input beat. Zero for beat-aligned transfers.
	offsetWords uint32

	// inputBeats is the number of bus data beats to consume. May
	// exceed outputBeats by one for unaligned transfers.
	inputBeats uint32

	// outputBeats is the number of stream beats to produce. Zero for a
	// zero-length descriptor, which completes without any beat.
	outputBeats uint32

	// lastWords is the number of valid words on the final output beat,
	// in [1, wordsPerBeat]. Meaningless when outputBeats is zero.
	lastWords uint32

	tag  uint8
	id   uint8
	dest uint8
	user uint8
}

type issuerState int

const (
	issuerIdle issuerState = iota
	issuerStart
)

// issuerRegs is the command issuer's register state.
type issuerRegs struct {
	state issuerState

	// burstAddr is the beat-aligned start address of the next burst.
	burstAddr uint64

	// beatsLeft is the number of bus beats not yet covered by an
	// issued burst command.
	beatsLeft uint32

	// cmd is the stream command awaiting handoff while cmdValid is
	// set. Descriptor intake stays blocked until the sequencer takes
	// it.
	cmd      streamCommand
	cmdValid bool
}

// Clear resets the issuer to the IDLE baseline.
func (r *issuerRegs) Clear() {
	r.state = issuerIdle
	r.burstAddr = 0
	r.beatsLeft = 0
	r.cmd = streamCommand{}
	r.cmdValid = false
}

type sequencerState int

const (
	sequencerIdle sequencerState = iota
	sequencerRead
)

// sequencerRegs is the stream sequencer's register state.
type sequencerRegs struct {
	state sequencerState

	cmd streamCommand

	// inputLeft and outputLeft count down independently: unaligned
	// transfers can need one more input beat than they produce output
	// beats, or one more output cycle after the last input beat.
	inputLeft  uint32
	outputLeft uint32

	// save holds the most recently consumed input beat for word-level
	// re-alignment. The backing array is preallocated at construction
	// and survives Clear; only the validity flag is dropped.
	save      []byte
	saveValid bool
}

// Clear resets the sequencer to the IDLE baseline.
func (r *sequencerRegs) Clear() {
	r.state = sequencerIdle
	r.cmd = streamCommand{}
	r.inputLeft = 0
	r.outputLeft = 0
	r.saveValid = false
}
