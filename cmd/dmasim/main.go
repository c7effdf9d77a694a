// Package main provides the entry point for DMASim.
// DMASim is a cycle-accurate AXI DMA read engine simulator.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/sarchlab/dmasim/benchmarks"
	"github.com/sarchlab/dmasim/dma"
)

var (
	configPath = flag.String("config", "", "Path to engine configuration JSON file")
	numDescs   = flag.Int("descriptors", 4, "Number of descriptors to submit")
	length     = flag.Uint("length", 64, "Transfer length per descriptor, in words")
	baseAddr   = flag.Uint64("addr", 0x1000, "Byte address of the first transfer")
	stride     = flag.Uint64("stride", 0x1000, "Byte stride between transfers")
	memLatency = flag.Int("mem-latency", 10, "Bus memory read latency in cycles")
	stallEvery = flag.Uint64("stall-every", 0, "Stall the consumer once every N cycles (0 = never)")
	seed       = flag.Int64("seed", 1, "Seed for the memory fill pattern")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	result, err := run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}

	report(cfg, result)
}

func loadConfig() (*dma.Config, error) {
	if *configPath == "" {
		return dma.DefaultConfig(), nil
	}

	return dma.LoadConfig(*configPath)
}

func run(cfg *dma.Config) (*benchmarks.Result, error) {
	h := benchmarks.NewHarness(cfg, *memLatency)
	if *stallEvery > 0 {
		h.WithStall(benchmarks.StallEvery(*stallEvery))
	}

	rng := rand.New(rand.NewSource(*seed))

	descs := make([]dma.ReadDescriptor, *numDescs)
	for i := range descs {
		addr := *baseAddr + uint64(i)**stride

		data := make([]byte, *length*uint(cfg.WordSize))
		rng.Read(data)
		h.Preload(addr, data)

		descs[i] = dma.ReadDescriptor{
			Addr:   addr,
			Length: uint32(*length),
			Tag:    uint8(i),
			ID:     uint8(i),
		}

		if *verbose {
			fmt.Printf("Descriptor %d: addr=0x%X length=%d words\n",
				i, addr, *length)
		}
	}

	return h.Run(descs)
}

func report(cfg *dma.Config, result *benchmarks.Result) {
	stats := result.EngineStats

	fmt.Printf("Data width: %d bytes (%d words/beat)\n",
		cfg.DataWidth, cfg.WordsPerBeat())
	fmt.Printf("Descriptors completed: %d\n", stats.DescriptorsCompleted)
	fmt.Printf("Bursts issued: %d\n", stats.BurstsIssued)
	fmt.Printf("Beats in: %d\n", stats.BeatsIn)
	fmt.Printf("Beats out: %d\n", stats.BeatsOut)
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("Output utilization: %.2f%%\n", stats.Utilization()*100)

	if *verbose {
		fmt.Printf("Completion order: %v\n", result.CompletionTags)
		fmt.Printf("Wall time: %v\n", result.WallTime)
	}
}
