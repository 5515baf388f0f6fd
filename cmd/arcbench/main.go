package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
	"github.com/arclabs/arcstore/pkg/store"
)

// Offline throughput check for the split and query paths against the
// in-memory backend.
func main() {
	agents := flag.Int("agents", 10000, "records to seed")
	n := flag.Int("n", 50000, "queries per phase")
	seed := flag.Int64("seed", 42, "rng seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	s := store.NewMem()
	defer s.Close()
	for i := 0; i < *agents; i++ {
		if err := s.Put(ctx, agent.NewRandom(rng)); err != nil {
			panic(err)
		}
	}

	start := time.Now()
	for i := 0; i < *n; i++ {
		_ = arc.New(rng.Uint32(), rng.Uint32()%(arc.MaxLoc/2)).Split()
	}
	report("split", *n, time.Since(start))

	start = time.Now()
	for i := 0; i < *n; i++ {
		if _, err := s.CountCovering(ctx, rng.Uint32()); err != nil {
			panic(err)
		}
	}
	report("covering", *n, time.Since(start))

	start = time.Now()
	for i := 0; i < *n; i++ {
		a := arc.New(rng.Uint32(), rng.Uint32()%(arc.MaxLoc/2))
		if _, err := s.CountOverlapping(ctx, a); err != nil {
			panic(err)
		}
	}
	report("overlapping", *n, time.Since(start))
}

func report(phase string, n int, dur time.Duration) {
	fmt.Printf("%-12s %d ops in %s (%.2f ops/s)\n", phase, n, dur, float64(n)/dur.Seconds())
}
