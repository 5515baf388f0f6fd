package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arclabs/arcstore/internal/telemetry"
	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
	"github.com/arclabs/arcstore/pkg/store"
)

// Diagnostic host for the arc record store: seeds a backend with random
// agents, dumps the stored split ranges and reports coverage/overlap
// counts at a few probe locations.
//
// Configuration (env):
//
//	ARCSTORE_BACKEND        mem | sqlite | etcd (default mem)
//	ARCSTORE_DSN            sqlite DSN (default ":memory:")
//	ARCSTORE_ETCD_ENDPOINTS comma-separated etcd endpoints
//	ARCSTORE_SEED_AGENTS    number of random agents to insert (default 10)
//	ARCSTORE_METRICS_ADDR   if set, serve prometheus metrics on this addr
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	backend := os.Getenv("ARCSTORE_BACKEND")
	if backend == "" {
		backend = "mem"
	}
	seedAgents := 10
	if v := os.Getenv("ARCSTORE_SEED_AGENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			seedAgents = n
		}
	}

	s, err := openStore(backend, logger)
	if err != nil {
		logger.Fatal("open store", zap.String("backend", backend), zap.Error(err))
	}
	defer s.Close()
	st := telemetry.InstrumentStore(s)

	if addr := os.Getenv("ARCSTORE_METRICS_ADDR"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.MetricsHandler())
		go func() {
			logger.Info("serving metrics", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics listener", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// One agent with the empty arc: it must never show up in any count.
	zero := agent.NewRandom(rng)
	zero.StorageArc = arc.New(0, 0)
	if err := st.Put(ctx, zero); err != nil {
		logger.Fatal("insert zero-arc agent", zap.Error(err))
	}

	for i := 0; i < seedAgents; i++ {
		if err := st.Put(ctx, agent.NewRandom(rng)); err != nil {
			logger.Fatal("insert agent", zap.Int("i", i), zap.Error(err))
		}
	}

	rows, err := st.ScanAll(ctx)
	if err != nil {
		logger.Fatal("scan store", zap.Error(err))
	}
	for _, r := range rows {
		fmt.Printf("%s-%s + %s-%s\n",
			fmtLoc(r.Split.Start1), fmtLoc(r.Split.End1),
			fmtLoc(r.Split.Start2), fmtLoc(r.Split.End2))
	}

	mid := arc.MaxLoc / 2
	for _, loc := range []uint32{0, arc.MaxLoc, mid} {
		n, err := st.CountCovering(ctx, loc)
		if err != nil {
			logger.Fatal("count covering", zap.Error(err))
		}
		logger.Info("agents covering location",
			zap.Uint32("loc", loc), zap.Int("count", n))
	}

	probe := arc.New(mid, arc.MaxLoc/4)
	n, err := st.CountOverlapping(ctx, probe)
	if err != nil {
		logger.Fatal("count overlapping", zap.Error(err))
	}
	logger.Info("agents overlapping arc",
		zap.Uint32("center", probe.Center),
		zap.Uint32("half_length", probe.HalfLength),
		zap.Int("count", n))
}

func openStore(backend string, logger *zap.Logger) (store.Store, error) {
	switch backend {
	case "mem":
		return store.NewMem(), nil
	case "sqlite":
		dsn := os.Getenv("ARCSTORE_DSN")
		if dsn == "" {
			dsn = ":memory:"
		}
		return store.OpenSQLite(dsn, logger)
	case "etcd":
		eps := os.Getenv("ARCSTORE_ETCD_ENDPOINTS")
		if eps == "" {
			eps = "http://etcd:2379"
		}
		return store.OpenEtcd(strings.Split(eps, ","), "", logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func fmtLoc(p *uint32) string {
	if p == nil {
		return "nil"
	}
	return fmt.Sprintf("%#x", *p)
}
