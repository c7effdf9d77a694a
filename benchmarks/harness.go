// Package benchmarks provides closed-loop simulation scenarios for the
// DMA read engine: engine, bus memory, and a stallable consumer wired
// over an Akita connection.
package benchmarks

import (
	"log"
	"reflect"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/dmasim/dma"
	"github.com/sarchlab/dmasim/timing/busmem"
	"github.com/sarchlab/dmasim/timing/dmacomp"
	"github.com/sarchlab/dmasim/timing/readengine"
)

// A StallPattern decides, per host cycle, whether the consumer refuses
// to take a stream beat.
type StallPattern func(cycle uint64) bool

// NeverStall is the always-ready consumer.
func NeverStall(uint64) bool { return false }

// StallEvery returns a pattern that stalls one cycle in every period.
func StallEvery(period uint64) StallPattern {
	return func(cycle uint64) bool { return cycle%period == 0 }
}

// StallWindow returns a pattern that stalls for the half-open cycle
// range [from, to).
func StallWindow(from, to uint64) StallPattern {
	return func(cycle uint64) bool { return cycle >= from && cycle < to }
}

// Result holds the outcome of one harness run.
type Result struct {
	// Beats is the delivered output stream, in order.
	Beats []dma.OutputBeat `json:"-"`

	// CompletionTags is the order in which completions arrived.
	CompletionTags []uint8 `json:"completion_tags"`

	// EngineStats is the DMA engine's counter snapshot.
	EngineStats readengine.Statistics `json:"engine_stats"`

	// WallTime is the actual time taken to run the simulation.
	WallTime time.Duration `json:"wall_time_ns"`
}

// hostComp submits descriptors, consumes the output stream subject to
// a stall pattern, and collects completions.
type hostComp struct {
	*sim.TickingComponent

	CtrlPort sim.Port
	SinkPort sim.Port

	dmaCtrl sim.RemotePort

	descs    []dma.ReadDescriptor
	nextDesc int

	stall StallPattern
	cycle uint64

	expectedBeats int
	beats         []dma.OutputBeat
	completions   []uint8
}

func newHostComp(
	name string,
	engine sim.Engine,
	freq sim.Freq,
) *hostComp {
	h := &hostComp{stall: NeverStall}
	h.TickingComponent = sim.NewTickingComponent(name, engine, freq, h)
	h.CtrlPort = sim.NewPort(h, 4, 4, name+".CtrlPort")
	h.SinkPort = sim.NewPort(h, 1, 1, name+".SinkPort")

	return h
}

func (h *hostComp) Tick() bool {
	h.cycle++

	madeProgress := false
	madeProgress = h.collectStream() || madeProgress
	madeProgress = h.collectCompletions() || madeProgress
	madeProgress = h.sendDescriptor() || madeProgress

	// Keep the clock running while results are outstanding, so stall
	// windows expire even when no message moves.
	if !h.done() {
		return true
	}

	return madeProgress
}

func (h *hostComp) done() bool {
	return h.nextDesc == len(h.descs) &&
		len(h.beats) == h.expectedBeats &&
		len(h.completions) == len(h.descs)
}

func (h *hostComp) sendDescriptor() bool {
	if h.nextDesc >= len(h.descs) {
		return false
	}

	req := dmacomp.MakeReadDescriptorReqBuilder().
		WithSrc(h.CtrlPort.AsRemote()).
		WithDst(h.dmaCtrl).
		WithDescriptor(h.descs[h.nextDesc]).
		Build()

	err := h.CtrlPort.Send(req)
	if err != nil {
		return false
	}

	h.nextDesc++

	return true
}

func (h *hostComp) collectStream() bool {
	if h.stall(h.cycle) {
		return false
	}

	msg := h.SinkPort.PeekIncoming()
	if msg == nil {
		return false
	}

	beatMsg, ok := msg.(*dmacomp.StreamBeatMsg)
	if !ok {
		log.Panicf("can't process message of type %s", reflect.TypeOf(msg))
	}

	h.beats = append(h.beats, beatMsg.Beat)
	h.SinkPort.RetrieveIncoming()

	return true
}

func (h *hostComp) collectCompletions() bool {
	msg := h.CtrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*dmacomp.CompletionRsp)
	if !ok {
		log.Panicf("can't process message of type %s", reflect.TypeOf(msg))
	}

	h.completions = append(h.completions, rsp.Tag)
	h.CtrlPort.RetrieveIncoming()

	return true
}

// Harness wires a DMA engine, a bus memory, and a host into one
// simulation.
type Harness struct {
	Engine sim.Engine
	DMA    *dmacomp.Comp
	Mem    *busmem.Comp

	host *hostComp
	cfg  *dma.Config
}

// NewHarness builds the closed-loop simulation with the given engine
// geometry and memory latency.
func NewHarness(cfg *dma.Config, memLatency int) *Harness {
	engine := sim.NewSerialEngine()
	freq := 1 * sim.GHz

	host := newHostComp("Host", engine, freq)

	mem := busmem.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithLatency(memLatency).
		WithBeatBytes(cfg.DataWidth).
		Build("Mem")

	dmaComp := dmacomp.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithConfig(cfg).
		WithMemDst(mem.TopPort.AsRemote()).
		WithStreamDst(host.SinkPort.AsRemote()).
		Build("DMA")

	host.dmaCtrl = dmaComp.CtrlPort.AsRemote()

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("Conn")
	conn.PlugIn(host.CtrlPort)
	conn.PlugIn(host.SinkPort)
	conn.PlugIn(dmaComp.CtrlPort)
	conn.PlugIn(dmaComp.MemPort)
	conn.PlugIn(dmaComp.StreamPort)
	conn.PlugIn(mem.TopPort)

	return &Harness{
		Engine: engine,
		DMA:    dmaComp,
		Mem:    mem,
		host:   host,
		cfg:    cfg,
	}
}

// WithStall sets the consumer's stall pattern.
func (h *Harness) WithStall(pattern StallPattern) *Harness {
	h.host.stall = pattern
	return h
}

// Preload writes data into the bus memory.
func (h *Harness) Preload(addr uint64, data []byte) {
	h.Mem.Storage().Write(addr, data)
}

// Run submits the descriptors and runs the simulation to completion.
func (h *Harness) Run(descs []dma.ReadDescriptor) (*Result, error) {
	wpb := h.cfg.WordsPerBeat()

	h.host.descs = descs
	for _, desc := range descs {
		h.host.expectedBeats += int((desc.Length + wpb - 1) / wpb)
	}

	start := time.Now()

	h.host.TickLater()
	if err := h.Engine.Run(); err != nil {
		return nil, err
	}

	return &Result{
		Beats:          h.host.beats,
		CompletionTags: h.host.completions,
		EngineStats:    h.DMA.EngineStats(),
		WallTime:       time.Since(start),
	}, nil
}
