// Package dma defines the shared data model for the DMA read engine:
// descriptors, bus burst commands, stream beats, and completions.
package dma

// AddressBoundary is the bus-level address boundary that a single burst
// must never cross, in bytes.
const AddressBoundary = 4096

// A ReadDescriptor requests one contiguous read. It is immutable once
// accepted by the engine and is consumed exactly once.
type ReadDescriptor struct {
	// Addr is the starting byte address of the transfer.
	Addr uint64

	// Length is the transfer length in stream words (Config.WordSize
	// bytes each), not in beats.
	Length uint32

	// Tag is an opaque correlation ID returned in the Completion.
	Tag uint8

	// Stream routing metadata, copied onto every output beat.
	ID   uint8
	Dest uint8
	User uint8
}

// A BurstCommand is one bus-level read request derived from a
// descriptor. A descriptor produces one or more burst commands.
type BurstCommand struct {
	// Addr is the starting byte address of the burst. Always
	// beat-aligned.
	Addr uint64

	// Beats is the burst length in data beats. Never exceeds the
	// configured maximum burst length, and the address range
	// [Addr, Addr+Beats*DataWidth) never crosses AddressBoundary.
	Beats uint32
}

// EndAddr returns the first byte address past the burst, given the
// beat width in bytes.
func (c BurstCommand) EndAddr(dataWidth uint32) uint64 {
	return c.Addr + uint64(c.Beats)*uint64(dataWidth)
}

// An OutputBeat is one cycle of the output data stream.
type OutputBeat struct {
	// Data holds DataWidth bytes.
	Data []byte

	// Keep marks which words of Data are valid, one bit per word,
	// bit 0 for the lowest-addressed word. All bits are set except
	// possibly on the last beat of a transfer.
	Keep uint64

	// Last is set on exactly the final beat of a descriptor.
	Last bool

	// Routing metadata copied from the descriptor.
	ID   uint8
	Dest uint8
	User uint8
}

// A Completion reports that a descriptor has fully drained to the
// stream output. Exactly one is produced per accepted descriptor,
// never before the descriptor's final OutputBeat.
type Completion struct {
	Tag uint8
}

// KeepMask returns a keep mask with the low n bits set. n is a word
// count and must be at most 64.
func KeepMask(n uint32) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}
