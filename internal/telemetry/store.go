package telemetry

import (
	"context"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
	"github.com/arclabs/arcstore/pkg/store"
)

// InstrumentedStore wraps a store.Store and records every call in the
// registry under per-operation labels.
type InstrumentedStore struct {
	next store.Store
}

var _ store.Store = (*InstrumentedStore)(nil)

// InstrumentStore wraps s with metrics.
func InstrumentStore(s store.Store) *InstrumentedStore {
	return &InstrumentedStore{next: s}
}

func (s *InstrumentedStore) Put(ctx context.Context, info *agent.Info) error {
	return Observe("put", func() error {
		return s.next.Put(ctx, info)
	})
}

func (s *InstrumentedStore) ScanAll(ctx context.Context) ([]store.Row, error) {
	var rows []store.Row
	err := Observe("scan", func() error {
		var err error
		rows, err = s.next.ScanAll(ctx)
		return err
	})
	return rows, err
}

func (s *InstrumentedStore) CountCovering(ctx context.Context, loc uint32) (int, error) {
	var n int
	err := Observe("count_covering", func() error {
		var err error
		n, err = s.next.CountCovering(ctx, loc)
		return err
	})
	return n, err
}

func (s *InstrumentedStore) CountOverlapping(ctx context.Context, a arc.Arc) (int, error) {
	var n int
	err := Observe("count_overlapping", func() error {
		var err error
		n, err = s.next.CountOverlapping(ctx, a)
		return err
	})
	return n, err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
