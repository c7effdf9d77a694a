// Package main provides the entry point for DMASim.
// DMASim is a cycle-accurate AXI DMA read engine simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/dmasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("DMASim - AXI DMA Read Engine Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: dmasim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config       Path to engine configuration JSON file")
	fmt.Println("  -descriptors  Number of descriptors to submit")
	fmt.Println("  -length       Transfer length per descriptor, in words")
	fmt.Println("  -stall-every  Stall the consumer once every N cycles")
	fmt.Println("  -v            Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/dmasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/dmasim' instead.")
	}
}
