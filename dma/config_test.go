package dma

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero word size", func(c *Config) { c.WordSize = 0 }},
		{"non power of two word size", func(c *Config) { c.WordSize = 3 }},
		{"non power of two data width", func(c *Config) { c.DataWidth = 12 }},
		{"data width below word size", func(c *Config) {
			c.WordSize = 8
			c.DataWidth = 4
		}},
		{"data width above keep mask range", func(c *Config) { c.DataWidth = 128 }},
		{"zero burst length", func(c *Config) { c.MaxBurstLen = 0 }},
		{"burst length above 256", func(c *Config) { c.MaxBurstLen = 257 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mod(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")

	cfg := &Config{
		WordSize:        4,
		DataWidth:       16,
		MaxBurstLen:     32,
		EnableUnaligned: true,
	}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Fatalf("round trip mismatch: %+v != %+v", loaded, cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	if err := os.WriteFile(path,
		[]byte(`{"max_burst_len": 0}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestKeepMask(t *testing.T) {
	if KeepMask(0) != 0 {
		t.Fatal("KeepMask(0) must be empty")
	}
	if KeepMask(3) != 0b111 {
		t.Fatalf("KeepMask(3) = %#x", KeepMask(3))
	}
	if KeepMask(64) != ^uint64(0) {
		t.Fatalf("KeepMask(64) = %#x", KeepMask(64))
	}
}

func TestBurstEndAddr(t *testing.T) {
	cmd := BurstCommand{Addr: 0xFF0, Beats: 2}
	if got := cmd.EndAddr(8); got != 0x1000 {
		t.Fatalf("EndAddr = %#x, want 0x1000", got)
	}
}
