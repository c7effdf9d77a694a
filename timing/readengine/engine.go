// Package readengine provides a cycle-accurate functional model of a
// DMA read engine: a bus command issuer and a stream output sequencer
// cooperating through a one-deep command handoff, with a two-slot skid
// buffer decoupling the output stream from consumer backpressure.
//
// The model is strictly synchronous. Each Tick evaluates all
// combinational decisions from current register state and this cycle's
// inputs, then commits every register at once; the three blocks
// observe each other's previous-cycle state only, never a value
// computed in the same Tick.
package readengine

import (
	"log"

	"github.com/sarchlab/dmasim/dma"
	"github.com/sarchlab/dmasim/timing/skid"
)

// streamEntry is what travels through the skid buffer: the beat itself
// plus the completion tag, so the completion can be emitted in the
// cycle the final beat handshakes downstream even if the sequencer has
// already moved on to the next descriptor.
type streamEntry struct {
	Beat dma.OutputBeat
	Tag  uint8
}

// Engine is the cycle-accurate DMA read engine model.
type Engine struct {
	cfg dma.Config

	issuer *issuer
	seq    *sequencer
	out    *skid.Buffer[streamEntry]

	// Outstanding burst lengths, for upstream protocol checking: each
	// consumed data beat is matched against the burst at the head of
	// the queue, and Last must arrive on exactly its final beat.
	outstanding []uint32
	burstBeats  uint32

	stats Statistics
}

// New creates an Engine with the given configuration. The
// configuration is validated once; an invalid configuration is a fatal
// construction error, not a runtime condition.
func New(cfg *dma.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg

	return &Engine{
		cfg:    c,
		issuer: newIssuer(c),
		seq:    newSequencer(c),
		out:    skid.New[streamEntry](),
	}, nil
}

// Config returns the engine's resolved configuration.
func (e *Engine) Config() dma.Config {
	return e.cfg
}

// Tick advances the engine by one cycle: it samples the input wires,
// returns the output wires for the same cycle, and commits all
// register state for the next one.
func (e *Engine) Tick(in Inputs) Outputs {
	// Registered values visible this cycle.
	streamValid := e.out.OutputValid()
	entry := e.out.Output()
	skidReady := e.out.InputReady()

	lastHandshake := streamValid && in.StreamReady && entry.Beat.Last

	// A zero-length completion may only fire once every earlier beat
	// has been delivered. An empty skid buffer (both slots free, so no
	// beat is presented) is exactly that condition, and it also rules
	// out a competing final-beat completion in the same cycle.
	completionFree := !streamValid

	sw := e.seq.step(&in, e.issuer.regs.cmd, e.issuer.regs.cmdValid,
		skidReady, completionFree)
	iw := e.issuer.step(&in)

	if sw.consume {
		e.checkBusProtocol(&in)
	}

	out := Outputs{
		DescReady:    iw.descReady,
		BusCmd:       iw.burst,
		BusCmdValid:  iw.burstValid,
		BusDataReady: sw.busReady,
		Stream:       entry.Beat,
		StreamValid:  streamValid,
	}

	switch {
	case lastHandshake:
		out.Completion = dma.Completion{Tag: entry.Tag}
		out.CompletionValid = true
	case sw.zeroComplete:
		out.Completion = dma.Completion{Tag: sw.zeroTag}
		out.CompletionValid = true
	}

	// Commit phase.
	e.out.Tick(
		streamEntry{Beat: sw.beat, Tag: e.seq.regs.cmd.tag},
		sw.produce,
		in.StreamReady,
	)
	e.seq.commit(sw, e.issuer.regs.cmd, &in)
	e.issuer.commit(iw, sw.takeCmd, &in)

	if iw.burstFire {
		e.outstanding = append(e.outstanding, iw.burst.Beats)
	}

	e.updateStats(iw, sw, streamValid, in.StreamReady, out.CompletionValid)

	return out
}

// checkBusProtocol validates the upstream responder's behavior for the
// beat consumed this cycle. Violations are modeling errors with no
// recovery path, so they panic.
func (e *Engine) checkBusProtocol(in *Inputs) {
	if len(e.outstanding) == 0 {
		log.Panic("bus data beat arrived with no outstanding burst")
	}

	e.burstBeats++
	expectLast := e.burstBeats == e.outstanding[0]

	if in.BusData.Last != expectLast {
		log.Panicf("bus protocol violation: beat %d of %d-beat burst "+
			"has last=%v", e.burstBeats, e.outstanding[0], in.BusData.Last)
	}

	if expectLast {
		e.outstanding = e.outstanding[1:]
		e.burstBeats = 0
	}
}

func (e *Engine) updateStats(
	iw issuerWires,
	sw sequencerWires,
	streamValid bool,
	streamReady bool,
	completed bool,
) {
	e.stats.Cycles++

	if iw.accept {
		e.stats.DescriptorsAccepted++
	}
	if iw.burstFire {
		e.stats.BurstsIssued++
	}
	if sw.consume {
		e.stats.BeatsIn++
	}
	if completed {
		e.stats.DescriptorsCompleted++
	}
	if streamValid {
		if streamReady {
			e.stats.BeatsOut++
		} else {
			e.stats.StallCycles++
		}
	}
}

// Stats returns the engine's performance counters.
func (e *Engine) Stats() Statistics {
	return e.stats
}

// Reset snaps both state machines back to IDLE, clears all in-flight
// validity flags and counters, and empties the skid buffer. Data
// registers are not scrubbed. Reset from any reachable state yields
// the same baseline.
func (e *Engine) Reset() {
	e.issuer.regs.Clear()
	e.seq.regs.Clear()
	e.out.Reset()
	e.outstanding = nil
	e.burstBeats = 0
	e.stats = Statistics{}
}
