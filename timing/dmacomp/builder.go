package dmacomp

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/dmasim/dma"
	"github.com/sarchlab/dmasim/timing/readengine"
)

// Builder can build DMA engine components.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	cfg       *dma.Config
	memDst    sim.RemotePort
	streamDst sim.RemotePort
}

// MakeBuilder creates a new Builder with the default engine
// configuration.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		cfg:  dma.DefaultConfig(),
	}
}

// WithEngine sets the simulation engine to use.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the component's clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithConfig sets the DMA engine geometry.
func (b Builder) WithConfig(cfg *dma.Config) Builder {
	b.cfg = cfg
	return b
}

// WithMemDst sets the port that serves burst read requests.
func (b Builder) WithMemDst(dst sim.RemotePort) Builder {
	b.memDst = dst
	return b
}

// WithStreamDst sets the port that consumes the output stream.
func (b Builder) WithStreamDst(dst sim.RemotePort) Builder {
	b.streamDst = dst
	return b
}

// Build creates a new Comp. An invalid engine configuration panics
// here, at elaboration time.
func (b Builder) Build(name string) *Comp {
	engine, err := readengine.New(b.cfg)
	if err != nil {
		panic(err)
	}

	c := &Comp{
		engine:    engine,
		memDst:    b.memDst,
		streamDst: b.streamDst,
		enabled:   true,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.CtrlPort = sim.NewPort(c, 4, 4, name+".CtrlPort")
	c.MemPort = sim.NewPort(c, 4, 4, name+".MemPort")
	c.StreamPort = sim.NewPort(c, 1, 1, name+".StreamPort")

	return c
}
