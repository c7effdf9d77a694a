package dmacomp

import (
	"reflect"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/dmasim/dma"
)

// A ReadDescriptorReq asks the DMA engine to perform one read
// transfer. The engine answers with a CompletionRsp after the final
// stream beat has been delivered.
type ReadDescriptorReq struct {
	sim.MsgMeta

	Desc dma.ReadDescriptor
}

// Meta returns the metadata of the message.
func (r *ReadDescriptorReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the request with a new ID.
func (r *ReadDescriptorReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GenerateRsp creates the completion response for the request.
func (r *ReadDescriptorReq) GenerateRsp() sim.Rsp {
	rsp := &CompletionRsp{}
	rsp.ID = sim.GetIDGenerator().Generate()
	rsp.Src = r.Dst
	rsp.Dst = r.Src
	rsp.RspTo = r.ID
	rsp.Tag = r.Desc.Tag
	rsp.TrafficClass = reflect.TypeOf(CompletionRsp{}).String()

	return rsp
}

// ReadDescriptorReqBuilder can build read descriptor requests.
type ReadDescriptorReqBuilder struct {
	src, dst sim.RemotePort
	desc     dma.ReadDescriptor
}

// MakeReadDescriptorReqBuilder creates a new builder.
func MakeReadDescriptorReqBuilder() ReadDescriptorReqBuilder {
	return ReadDescriptorReqBuilder{}
}

// WithSrc sets the source port of the message.
func (b ReadDescriptorReqBuilder) WithSrc(
	src sim.RemotePort,
) ReadDescriptorReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message. It should be the
// CtrlPort of the DMA engine.
func (b ReadDescriptorReqBuilder) WithDst(
	dst sim.RemotePort,
) ReadDescriptorReqBuilder {
	b.dst = dst
	return b
}

// WithDescriptor sets the descriptor carried by the request.
func (b ReadDescriptorReqBuilder) WithDescriptor(
	desc dma.ReadDescriptor,
) ReadDescriptorReqBuilder {
	b.desc = desc
	return b
}

// Build creates a new ReadDescriptorReq.
func (b ReadDescriptorReqBuilder) Build() *ReadDescriptorReq {
	r := &ReadDescriptorReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Desc = b.desc
	r.TrafficClass = reflect.TypeOf(ReadDescriptorReq{}).String()

	return r
}

// A CompletionRsp reports that a descriptor has fully drained to the
// stream output.
type CompletionRsp struct {
	sim.MsgMeta

	RspTo string
	Tag   uint8
}

// Meta returns the metadata of the message.
func (r *CompletionRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the response with a new ID.
func (r *CompletionRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the original request.
func (r *CompletionRsp) GetRspTo() string {
	return r.RspTo
}

// A BurstReadReq asks the upstream memory for one bus burst. The
// responder streams the data back as BurstDataRsp beats, in strict
// request order.
type BurstReadReq struct {
	sim.MsgMeta

	Addr  uint64
	Beats uint32
}

// Meta returns the metadata of the message.
func (r *BurstReadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the request with a new ID.
func (r *BurstReadReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// BurstReadReqBuilder can build burst read requests.
type BurstReadReqBuilder struct {
	src, dst sim.RemotePort
	addr     uint64
	beats    uint32
}

// MakeBurstReadReqBuilder creates a new builder.
func MakeBurstReadReqBuilder() BurstReadReqBuilder {
	return BurstReadReqBuilder{}
}

// WithSrc sets the source port of the message.
func (b BurstReadReqBuilder) WithSrc(src sim.RemotePort) BurstReadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b BurstReadReqBuilder) WithDst(dst sim.RemotePort) BurstReadReqBuilder {
	b.dst = dst
	return b
}

// WithAddr sets the burst start address.
func (b BurstReadReqBuilder) WithAddr(addr uint64) BurstReadReqBuilder {
	b.addr = addr
	return b
}

// WithBeats sets the burst length in beats.
func (b BurstReadReqBuilder) WithBeats(beats uint32) BurstReadReqBuilder {
	b.beats = beats
	return b
}

// Build creates a new BurstReadReq.
func (b BurstReadReqBuilder) Build() *BurstReadReq {
	r := &BurstReadReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Addr = b.addr
	r.Beats = b.beats
	r.TrafficClass = reflect.TypeOf(BurstReadReq{}).String()

	return r
}

// A BurstDataRsp carries one data beat of a burst response.
type BurstDataRsp struct {
	sim.MsgMeta

	RspTo string
	Data  []byte
	Last  bool
}

// Meta returns the metadata of the message.
func (r *BurstDataRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone creates a copy of the response with a new ID.
func (r *BurstDataRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the burst request being answered.
func (r *BurstDataRsp) GetRspTo() string {
	return r.RspTo
}

// BurstDataRspBuilder can build burst data beats.
type BurstDataRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	data     []byte
	last     bool
}

// MakeBurstDataRspBuilder creates a new builder.
func MakeBurstDataRspBuilder() BurstDataRspBuilder {
	return BurstDataRspBuilder{}
}

// WithSrc sets the source port of the message.
func (b BurstDataRspBuilder) WithSrc(src sim.RemotePort) BurstDataRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b BurstDataRspBuilder) WithDst(dst sim.RemotePort) BurstDataRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the burst request being answered.
func (b BurstDataRspBuilder) WithRspTo(id string) BurstDataRspBuilder {
	b.rspTo = id
	return b
}

// WithData sets the beat payload.
func (b BurstDataRspBuilder) WithData(data []byte) BurstDataRspBuilder {
	b.data = data
	return b
}

// WithLast marks the beat as the final beat of the burst.
func (b BurstDataRspBuilder) WithLast(last bool) BurstDataRspBuilder {
	b.last = last
	return b
}

// Build creates a new BurstDataRsp.
func (b BurstDataRspBuilder) Build() *BurstDataRsp {
	r := &BurstDataRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.RspTo = b.rspTo
	r.Data = b.data
	r.Last = b.last
	r.TrafficClass = reflect.TypeOf(BurstDataRsp{}).String()

	return r
}

// A StreamBeatMsg carries one beat of the engine's output stream.
type StreamBeatMsg struct {
	sim.MsgMeta

	Beat dma.OutputBeat
}

// Meta returns the metadata of the message.
func (m *StreamBeatMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone creates a copy of the message with a new ID.
func (m *StreamBeatMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// StreamBeatMsgBuilder can build stream beat messages.
type StreamBeatMsgBuilder struct {
	src, dst sim.RemotePort
	beat     dma.OutputBeat
}

// MakeStreamBeatMsgBuilder creates a new builder.
func MakeStreamBeatMsgBuilder() StreamBeatMsgBuilder {
	return StreamBeatMsgBuilder{}
}

// WithSrc sets the source port of the message.
func (b StreamBeatMsgBuilder) WithSrc(src sim.RemotePort) StreamBeatMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the message.
func (b StreamBeatMsgBuilder) WithDst(dst sim.RemotePort) StreamBeatMsgBuilder {
	b.dst = dst
	return b
}

// WithBeat sets the beat carried by the message.
func (b StreamBeatMsgBuilder) WithBeat(beat dma.OutputBeat) StreamBeatMsgBuilder {
	b.beat = beat
	return b
}

// Build creates a new StreamBeatMsg.
func (b StreamBeatMsgBuilder) Build() *StreamBeatMsg {
	m := &StreamBeatMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.Beat = b.beat
	m.TrafficClass = reflect.TypeOf(StreamBeatMsg{}).String()

	return m
}
