package readengine

import (
	"log"

	"github.com/sarchlab/dmasim/dma"
)

// issuer is the bus command side of the engine. It accepts one
// descriptor at a time, splits it into burst commands bounded by the
// configured maximum burst length and the 4 KiB address boundary, and
// forwards one stream command per descriptor to the sequencer.
type issuer struct {
	cfg  dma.Config
	regs issuerRegs
}

// issuerWires are the issuer's combinational decisions for one cycle,
// evaluated from current register state and inputs only.
type issuerWires struct {
	descReady bool
	accept    bool

	burst      dma.BurstCommand
	burstValid bool
	burstFire  bool
}

func newIssuer(cfg dma.Config) *issuer {
	return &issuer{cfg: cfg}
}

func (s *issuer) step(in *Inputs) issuerWires {
	var w issuerWires

	// Intake re-opens only after the previous descriptor's full length
	// has been issued and its stream command has been taken.
	w.descReady = s.regs.state == issuerIdle && !s.regs.cmdValid && in.Enable
	w.accept = w.descReady && in.DescValid

	if s.regs.state == issuerStart {
		w.burst = s.nextBurst()
		w.burstValid = true
		w.burstFire = in.BusCmdReady
	}

	return w
}

// nextBurst bounds the next burst by whichever limit bites first: the
// remaining length, the maximum burst length, or the distance to the
// next 4 KiB boundary.
func (s *issuer) nextBurst() dma.BurstCommand {
	beats := s.regs.beatsLeft

	if beats > s.cfg.MaxBurstLen {
		beats = s.cfg.MaxBurstLen
	}

	boundaryBeats := uint32(dma.AddressBoundary-
		s.regs.burstAddr%dma.AddressBoundary) / s.cfg.DataWidth
	if beats > boundaryBeats {
		beats = boundaryBeats
	}

	return dma.BurstCommand{Addr: s.regs.burstAddr, Beats: beats}
}

func (s *issuer) commit(w issuerWires, handoff bool, in *Inputs) {
	if w.accept {
		s.acceptDescriptor(in.Desc)
	}

	if w.burstFire {
		s.regs.burstAddr = w.burst.EndAddr(s.cfg.DataWidth)
		s.regs.beatsLeft -= w.burst.Beats
		if s.regs.beatsLeft == 0 {
			s.regs.state = issuerIdle
		}
	}

	if handoff {
		s.regs.cmdValid = false
	}
}

// acceptDescriptor latches a new descriptor: alignment offset, beat
// counts, and the stream command. A zero-length descriptor issues no
// burst and hands the sequencer a zero-cycle command, so no length
// arithmetic ever underflows.
func (s *issuer) acceptDescriptor(desc dma.ReadDescriptor) {
	ws := s.cfg.WordSize
	dw := uint64(s.cfg.DataWidth)
	wpb := s.cfg.WordsPerBeat()

	if desc.Addr%uint64(ws) != 0 {
		log.Panicf("descriptor address 0x%X is not word aligned", desc.Addr)
	}

	offsetWords := uint32(desc.Addr%dw) / ws
	if offsetWords != 0 && !s.cfg.EnableUnaligned {
		log.Panicf("descriptor address 0x%X is not beat aligned and "+
			"unaligned support is disabled", desc.Addr)
	}

	cmd := streamCommand{
		offsetWords: offsetWords,
		tag:         desc.Tag,
		id:          desc.ID,
		dest:        desc.Dest,
		user:        desc.User,
	}

	if desc.Length > 0 {
		cmd.inputBeats = (offsetWords + desc.Length + wpb - 1) / wpb
		cmd.outputBeats = (desc.Length + wpb - 1) / wpb
		cmd.lastWords = desc.Length % wpb
		if cmd.lastWords == 0 {
			cmd.lastWords = wpb
		}

		s.regs.state = issuerStart
		s.regs.burstAddr = desc.Addr &^ (dw - 1)
		s.regs.beatsLeft = cmd.inputBeats
	}

	s.regs.cmd = cmd
	s.regs.cmdValid = true
}
