package readengine

import "github.com/sarchlab/dmasim/dma"

// BusData is one beat of the upstream read-data channel.
type BusData struct {
	// Data holds exactly Config.DataWidth bytes.
	Data []byte

	// Last marks the final beat of a burst response.
	Last bool

	// Valid indicates the upstream presents a beat this cycle.
	Valid bool
}

// Inputs are the engine's input wires for one cycle.
type Inputs struct {
	// Descriptor intake channel. A descriptor is accepted when
	// DescValid and the returned DescReady are both high in the same
	// cycle.
	Desc      dma.ReadDescriptor
	DescValid bool

	// Enable gates acceptance of new descriptors only. In-flight work
	// always runs to completion.
	Enable bool

	// BusCmdReady indicates the upstream can accept a burst command
	// this cycle.
	BusCmdReady bool

	// BusData is the upstream read-data channel. Beats arrive in
	// strict burst-request order.
	BusData BusData

	// StreamReady is the downstream consumer's ready signal.
	StreamReady bool
}

// Outputs are the engine's output wires for one cycle.
type Outputs struct {
	// DescReady indicates a descriptor can be accepted this cycle.
	DescReady bool

	// Burst command channel toward the upstream bus. BusCmd holds its
	// value across cycles until BusCmdReady is seen.
	BusCmd      dma.BurstCommand
	BusCmdValid bool

	// BusDataReady gates the upstream read-data channel. It is derived
	// from registered state only, never from this cycle's StreamReady.
	BusDataReady bool

	// Output data stream.
	Stream      dma.OutputBeat
	StreamValid bool

	// Completion channel. No ready signal: the consumer must always
	// accept. Pulses for exactly one cycle per descriptor.
	Completion      dma.Completion
	CompletionValid bool
}
