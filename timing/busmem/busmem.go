// Package busmem provides the upstream side of the DMA engine's bus:
// a memory responder that serves burst read requests as beat-by-beat
// data responses, in strict request order.
package busmem

import (
	"log"
	"reflect"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/dmasim/timing/dmacomp"
)

// A transaction is one burst being served.
type transaction struct {
	req        *dmacomp.BurstReadReq
	cyclesLeft int
	nextBeat   uint32
}

// Comp is a burst-read memory responder. Each accepted BurstReadReq
// waits the configured access latency, then streams its beats as
// BurstDataRsp messages, Last set on the final beat. Requests are
// served strictly in arrival order.
type Comp struct {
	*sim.TickingComponent

	// TopPort receives BurstReadReq and sends BurstDataRsp.
	TopPort sim.Port

	storage   Storage
	latency   int
	beatBytes uint32

	queue []*transaction
}

// Storage returns the responder's backing storage, for preloading
// test content.
func (c *Comp) Storage() Storage {
	return c.storage
}

// Tick advances the responder by one cycle.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.serve() || madeProgress
	madeProgress = c.countDown() || madeProgress
	madeProgress = c.parseTop() || madeProgress

	return madeProgress
}

// parseTop accepts a new burst request.
func (c *Comp) parseTop() bool {
	msg := c.TopPort.PeekIncoming()
	if msg == nil {
		return false
	}

	req, ok := msg.(*dmacomp.BurstReadReq)
	if !ok {
		log.Panicf("can't process request of type %s", reflect.TypeOf(msg))
	}

	if req.Beats == 0 {
		log.Panicf("zero-beat burst request %s", req.ID)
	}

	c.queue = append(c.queue, &transaction{
		req:        req,
		cyclesLeft: c.latency,
	})
	c.TopPort.RetrieveIncoming()

	return true
}

// countDown burns access latency on the head transaction.
func (c *Comp) countDown() bool {
	if len(c.queue) == 0 {
		return false
	}

	trans := c.queue[0]
	if trans.cyclesLeft == 0 {
		return false
	}

	trans.cyclesLeft--

	return true
}

// serve sends the next beat of the head transaction.
func (c *Comp) serve() bool {
	if len(c.queue) == 0 {
		return false
	}

	trans := c.queue[0]
	if trans.cyclesLeft > 0 {
		return false
	}

	addr := trans.req.Addr + uint64(trans.nextBeat)*uint64(c.beatBytes)
	last := trans.nextBeat == trans.req.Beats-1

	rsp := dmacomp.MakeBurstDataRspBuilder().
		WithSrc(c.TopPort.AsRemote()).
		WithDst(trans.req.Src).
		WithRspTo(trans.req.ID).
		WithData(c.storage.Read(addr, int(c.beatBytes))).
		WithLast(last).
		Build()

	err := c.TopPort.Send(rsp)
	if err != nil {
		return false
	}

	trans.nextBeat++
	if last {
		c.queue = c.queue[1:]
	}

	return true
}

// Builder can build bus memory responders.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	latency   int
	beatBytes uint32
	storage   Storage
}

// MakeBuilder creates a Builder with a 10-cycle access latency and
// 8-byte beats.
func MakeBuilder() Builder {
	return Builder{
		freq:      1 * sim.GHz,
		latency:   10,
		beatBytes: 8,
	}
}

// WithEngine sets the simulation engine to use.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the responder's clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLatency sets the access latency in cycles before the first beat
// of each burst.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithBeatBytes sets the data beat width in bytes. It must match the
// DMA engine's DataWidth.
func (b Builder) WithBeatBytes(beatBytes uint32) Builder {
	b.beatBytes = beatBytes
	return b
}

// WithStorage sets the backing storage. A fresh PagedStorage is used
// when unset.
func (b Builder) WithStorage(storage Storage) Builder {
	b.storage = storage
	return b
}

// Build creates a new Comp.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		storage:   b.storage,
		latency:   b.latency,
		beatBytes: b.beatBytes,
	}
	if c.storage == nil {
		c.storage = NewPagedStorage()
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.TopPort = sim.NewPort(c, 4, 1, name+".TopPort")

	return c
}
