package dma

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
)

// Config holds the geometry of the DMA read engine. It mirrors the
// elaboration parameters of the modeled hardware and is validated once
// at engine construction.
type Config struct {
	// WordSize is the stream word size in bytes. Must be a power of
	// two. Default: 4.
	WordSize uint32 `json:"word_size"`

	// DataWidth is the bus and stream beat width in bytes. Must be a
	// power of two, a multiple of WordSize, and at most 64 (the keep
	// mask is one bit per word). Default: 8.
	DataWidth uint32 `json:"data_width"`

	// MaxBurstLen is the maximum bus burst length in beats. Must be in
	// [1, 256]. Default: 16.
	MaxBurstLen uint32 `json:"max_burst_len"`

	// EnableUnaligned allows descriptor addresses that are not
	// beat-aligned. When false, a misaligned descriptor is a contract
	// violation. Default: true.
	EnableUnaligned bool `json:"enable_unaligned"`
}

// DefaultConfig returns a Config with the modeled hardware's default
// geometry: 4-byte words on an 8-byte bus with 16-beat bursts.
func DefaultConfig() *Config {
	return &Config{
		WordSize:        4,
		DataWidth:       8,
		MaxBurstLen:     16,
		EnableUnaligned: true,
	}
}

// WordsPerBeat returns the number of stream words in one beat.
func (c *Config) WordsPerBeat() uint32 {
	return c.DataWidth / c.WordSize
}

// Validate checks all elaboration-time constraints. Any violation is a
// fatal configuration error surfaced once at construction; there is no
// runtime recovery path.
func (c *Config) Validate() error {
	if c.WordSize == 0 || bits.OnesCount32(c.WordSize) != 1 {
		return fmt.Errorf("word_size must be a power of two, got %d",
			c.WordSize)
	}
	if c.DataWidth == 0 || bits.OnesCount32(c.DataWidth) != 1 {
		return fmt.Errorf("data_width must be a power of two, got %d",
			c.DataWidth)
	}
	if c.DataWidth%c.WordSize != 0 || c.DataWidth < c.WordSize {
		return fmt.Errorf(
			"data_width (%d) must be a multiple of word_size (%d)",
			c.DataWidth, c.WordSize)
	}
	if c.DataWidth > 64 {
		return fmt.Errorf("data_width must be at most 64 bytes, got %d",
			c.DataWidth)
	}
	if c.MaxBurstLen < 1 || c.MaxBurstLen > 256 {
		return fmt.Errorf("max_burst_len must be in [1, 256], got %d",
			c.MaxBurstLen)
	}
	if c.DataWidth > AddressBoundary {
		return fmt.Errorf("data_width must not exceed the %d-byte "+
			"address boundary", AddressBoundary)
	}
	return nil
}

// LoadConfig loads a Config from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize engine config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write engine config file: %w", err)
	}

	return nil
}
