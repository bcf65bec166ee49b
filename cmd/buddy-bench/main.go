// Command buddy-bench drives a synthetic allocate/deallocate workload
// against a buddy.Allocator and reports the resulting fragmentation,
// useful for sanity-checking block-size and region-size choices before
// wiring the allocator into a real caller.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/calibandmem/buddy"
)

func main() {
	regionSize := flag.Uint64("region", 1<<20, "region size in bytes")
	minBlockSize := flag.Uint64("min-block", 64, "minimum block size in bytes")
	iterations := flag.Int("iterations", 10000, "number of allocate/deallocate cycles")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if err := run(*regionSize, *minBlockSize, *iterations, *verbose); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(regionSize, minBlockSize uint64, iterations int, verbose bool) error {
	a, err := buddy.New(0, regionSize, minBlockSize)
	if err != nil {
		return fmt.Errorf("buddy.New: %w", err)
	}
	la := buddy.NewLoggingAllocator(a)
	if verbose {
		level := slog.LevelDebug
		la.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	type live struct {
		offset, size, alignment uint64
	}
	var outstanding []live
	var failures int

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < iterations; i++ {
		if len(outstanding) > 0 && rng.IntN(2) == 0 {
			idx := rng.IntN(len(outstanding))
			b := outstanding[idx]
			la.Deallocate(b.offset, b.size, b.alignment)
			outstanding = append(outstanding[:idx], outstanding[idx+1:]...)
			continue
		}
		size := uint64(rng.IntN(4096) + 1)
		alignment := uint64(1) << rng.IntN(7) // 1..64
		offset, err := la.Allocate(size, alignment)
		if err != nil {
			failures++
			continue
		}
		outstanding = append(outstanding, live{offset, size, alignment})
	}

	fmt.Printf("total=%d available=%d outstanding=%d failures=%d\n",
		a.TotalSize(), a.AvailableSize(), len(outstanding), failures)
	return nil
}
