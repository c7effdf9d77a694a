// Package dmacomp wraps the DMA read engine cycle model as an Akita
// ticking component, so it can be co-simulated with memory models and
// traffic sinks over regular Akita connections.
package dmacomp

import (
	"log"
	"reflect"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/sarchlab/dmasim/timing/readengine"
)

// Comp drives one readengine.Engine. Each tick maps port state onto
// the engine's wire-level inputs: descriptor and bus-data messages
// become valid signals, port send capacity becomes ready signals.
type Comp struct {
	*sim.TickingComponent

	// CtrlPort accepts ReadDescriptorReq and returns CompletionRsp.
	CtrlPort sim.Port

	// MemPort issues BurstReadReq and receives BurstDataRsp beats.
	MemPort sim.Port

	// StreamPort emits StreamBeatMsg toward the configured consumer.
	StreamPort sim.Port

	engine    *readengine.Engine
	memDst    sim.RemotePort
	streamDst sim.RemotePort
	enabled   bool

	// Descriptor requests awaiting completion, in acceptance order
	// (completions are strictly in order), and the most recently
	// accepted one (the parent task for burst tracing).
	pendingDescs []*ReadDescriptorReq
	issueParent  *ReadDescriptorReq

	// Burst requests not yet fully answered, in request order.
	pendingBursts []*BurstReadReq

	// Completions that could not be sent yet.
	toCtrl []sim.Msg
}

// SetEnabled gates acceptance of new descriptors. In-flight
// descriptors always run to completion.
func (c *Comp) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.TickLater()
}

// EngineStats returns the wrapped engine's performance counters.
func (c *Comp) EngineStats() readengine.Statistics {
	return c.engine.Stats()
}

// Tick advances the component and the wrapped engine by one cycle.
func (c *Comp) Tick() bool {
	madeProgress := c.flushCompletions()

	in := readengine.Inputs{Enable: c.enabled}

	descReq := c.peekDescriptor()
	if descReq != nil {
		in.Desc = descReq.Desc
		in.DescValid = true
	}

	dataRsp := c.peekBusData()
	if dataRsp != nil {
		in.BusData = readengine.BusData{
			Data:  dataRsp.Data,
			Last:  dataRsp.Last,
			Valid: true,
		}
	}

	in.BusCmdReady = c.MemPort.CanSend()
	in.StreamReady = c.StreamPort.CanSend()

	out := c.engine.Tick(in)

	madeProgress = c.applyDescriptor(descReq, &out) || madeProgress
	madeProgress = c.applyBusCmd(&in, &out) || madeProgress
	madeProgress = c.applyBusData(dataRsp, &out) || madeProgress
	madeProgress = c.applyStream(&in, &out) || madeProgress
	madeProgress = c.applyCompletion(&out) || madeProgress

	return madeProgress
}

func (c *Comp) peekDescriptor() *ReadDescriptorReq {
	msg := c.CtrlPort.PeekIncoming()
	if msg == nil {
		return nil
	}

	req, ok := msg.(*ReadDescriptorReq)
	if !ok {
		log.Panicf("can't process request of type %s", reflect.TypeOf(msg))
	}

	return req
}

func (c *Comp) peekBusData() *BurstDataRsp {
	msg := c.MemPort.PeekIncoming()
	if msg == nil {
		return nil
	}

	rsp, ok := msg.(*BurstDataRsp)
	if !ok {
		log.Panicf("can't process response of type %s", reflect.TypeOf(msg))
	}

	return rsp
}

func (c *Comp) applyDescriptor(
	req *ReadDescriptorReq,
	out *readengine.Outputs,
) bool {
	if req == nil || !out.DescReady {
		return false
	}

	c.CtrlPort.RetrieveIncoming()
	c.pendingDescs = append(c.pendingDescs, req)
	c.issueParent = req

	tracing.TraceReqReceive(req, c)

	return true
}

func (c *Comp) applyBusCmd(in *readengine.Inputs, out *readengine.Outputs) bool {
	if !out.BusCmdValid || !in.BusCmdReady {
		return false
	}

	req := MakeBurstReadReqBuilder().
		WithSrc(c.MemPort.AsRemote()).
		WithDst(c.memDst).
		WithAddr(out.BusCmd.Addr).
		WithBeats(out.BusCmd.Beats).
		Build()

	err := c.MemPort.Send(req)
	if err != nil {
		log.Panic("mem port send failed after CanSend reported space")
	}

	c.pendingBursts = append(c.pendingBursts, req)
	tracing.TraceReqInitiate(req, c, tracing.MsgIDAtReceiver(c.issueParent, c))

	return true
}

func (c *Comp) applyBusData(rsp *BurstDataRsp, out *readengine.Outputs) bool {
	if rsp == nil || !out.BusDataReady {
		return false
	}

	if len(c.pendingBursts) == 0 || rsp.RspTo != c.pendingBursts[0].ID {
		log.Panicf("burst data response %s out of order", rsp.ID)
	}

	c.MemPort.RetrieveIncoming()

	if rsp.Last {
		tracing.TraceReqFinalize(c.pendingBursts[0], c)
		c.pendingBursts = c.pendingBursts[1:]
	}

	return true
}

func (c *Comp) applyStream(in *readengine.Inputs, out *readengine.Outputs) bool {
	if !out.StreamValid || !in.StreamReady {
		return false
	}

	msg := MakeStreamBeatMsgBuilder().
		WithSrc(c.StreamPort.AsRemote()).
		WithDst(c.streamDst).
		WithBeat(out.Stream).
		Build()

	err := c.StreamPort.Send(msg)
	if err != nil {
		log.Panic("stream port send failed after CanSend reported space")
	}

	return true
}

func (c *Comp) applyCompletion(out *readengine.Outputs) bool {
	if !out.CompletionValid {
		return false
	}

	if len(c.pendingDescs) == 0 ||
		c.pendingDescs[0].Desc.Tag != out.Completion.Tag {
		log.Panicf("completion for unexpected tag %d", out.Completion.Tag)
	}
	req := c.pendingDescs[0]
	c.pendingDescs = c.pendingDescs[1:]

	c.toCtrl = append(c.toCtrl, req.GenerateRsp())
	tracing.TraceReqComplete(req, c)

	return true
}

// flushCompletions drains queued completion responses. The engine's
// completion wire has no backpressure, so responses queue here until
// the control port can carry them.
func (c *Comp) flushCompletions() bool {
	madeProgress := false

	for len(c.toCtrl) > 0 {
		err := c.CtrlPort.Send(c.toCtrl[0])
		if err != nil {
			break
		}

		c.toCtrl = c.toCtrl[1:]
		madeProgress = true
	}

	return madeProgress
}
