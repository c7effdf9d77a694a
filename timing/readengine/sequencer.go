package readengine

import (
	"log"

	"github.com/sarchlab/dmasim/dma"
)

// sequencer is the stream side of the engine. It consumes bus data
// beats, re-aligns them at word granularity, and produces the tagged
// output beat stream.
type sequencer struct {
	cfg  dma.Config
	regs sequencerRegs
}

// sequencerWires are the sequencer's combinational decisions for one
// cycle.
type sequencerWires struct {
	// takeCmd accepts the issuer's pending stream command.
	takeCmd bool

	// busReady gates the upstream data channel: asserted only while
	// more input is expected and the skid buffer can take a beat.
	busReady bool
	consume  bool

	// produce presents a beat to the skid buffer this cycle.
	produce bool
	beat    dma.OutputBeat

	// zeroComplete requests the completion of a zero-length
	// descriptor. Granted only once no earlier descriptor's beat
	// remains undelivered, so completions stay in descriptor order.
	zeroComplete bool
	zeroTag      uint8
}

func newSequencer(cfg dma.Config) *sequencer {
	return &sequencer{
		cfg: cfg,
		regs: sequencerRegs{
			save: make([]byte, cfg.DataWidth),
		},
	}
}

func (s *sequencer) step(
	in *Inputs,
	pending streamCommand,
	pendingValid bool,
	skidReady bool,
	completionFree bool,
) sequencerWires {
	var w sequencerWires

	if s.regs.state == sequencerIdle {
		if !pendingValid {
			return w
		}

		if pending.outputBeats == 0 {
			// Zero-length descriptor: trivial completion, no beats.
			// Held while any earlier beat is still undelivered, so
			// the completion cannot overtake its predecessor's.
			if completionFree {
				w.takeCmd = true
				w.zeroComplete = true
				w.zeroTag = pending.tag
			}
			return w
		}

		w.takeCmd = true
		return w
	}

	w.busReady = s.regs.inputLeft > 0 && skidReady
	w.consume = w.busReady && in.BusData.Valid

	if w.consume && len(in.BusData.Data) != int(s.cfg.DataWidth) {
		log.Panicf("bus data beat is %d bytes, want %d",
			len(in.BusData.Data), s.cfg.DataWidth)
	}

	available := s.regs.cmd.inputBeats - s.regs.inputLeft
	if w.consume {
		available++
	}

	if s.regs.outputLeft > 0 && skidReady {
		k := s.regs.cmd.outputBeats - s.regs.outputLeft
		if available >= s.neededInputs(k) {
			w.produce = true
			w.beat = s.assemble(k, in, w.consume)
		}
	}

	return w
}

// neededInputs returns how many input beats must have arrived before
// output beat k can be emitted.
func (s *sequencer) neededInputs(k uint32) uint32 {
	wpb := s.cfg.WordsPerBeat()

	lastWord := wpb - 1
	if k == s.regs.cmd.outputBeats-1 {
		lastWord = s.regs.cmd.lastWords - 1
	}

	return (s.regs.cmd.offsetWords+k*wpb+lastWord)/wpb + 1
}

// assemble builds output beat k from the save register and, when a
// beat was consumed this cycle, the incoming bus data. Output beat k
// draws from input beats k and k+1 only; whichever of those is the
// newest consumed beat is on the wire, the other is in save.
func (s *sequencer) assemble(k uint32, in *Inputs, consumed bool) dma.OutputBeat {
	ws := s.cfg.WordSize
	wpb := s.cfg.WordsPerBeat()
	cmd := &s.regs.cmd

	validWords := wpb
	last := k == cmd.outputBeats-1
	if last {
		validWords = cmd.lastWords
	}

	hiBeat := s.neededInputs(k) - 1

	hiData := s.regs.save
	loData := []byte(nil)
	if consumed {
		hiData = in.BusData.Data
		loData = s.regs.save
	}

	beat := dma.OutputBeat{
		Data: make([]byte, s.cfg.DataWidth),
		Keep: dma.KeepMask(validWords),
		Last: last,
		ID:   cmd.id,
		Dest: cmd.dest,
		User: cmd.user,
	}

	for i := uint32(0); i < validWords; i++ {
		abs := cmd.offsetWords + k*wpb + i
		srcBeat := abs / wpb
		srcWord := abs % wpb

		src := hiData
		if srcBeat != hiBeat {
			src = loData
		}

		copy(beat.Data[i*ws:(i+1)*ws], src[srcWord*ws:(srcWord+1)*ws])
	}

	return beat
}

func (s *sequencer) commit(w sequencerWires, pending streamCommand, in *Inputs) {
	if w.takeCmd {
		s.regs.cmd = pending
		s.regs.inputLeft = pending.inputBeats
		s.regs.outputLeft = pending.outputBeats
		s.regs.saveValid = false
		if pending.outputBeats > 0 {
			s.regs.state = sequencerRead
		}
	}

	if w.consume {
		s.regs.inputLeft--
		copy(s.regs.save, in.BusData.Data)
		s.regs.saveValid = true
	}

	if w.produce {
		s.regs.outputLeft--
	}

	if s.regs.state == sequencerRead &&
		s.regs.inputLeft == 0 && s.regs.outputLeft == 0 {
		s.regs.state = sequencerIdle
		s.regs.saveValid = false
	}
}
