package store

import (
	"context"
	"sync"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
)

// Mem is the in-memory backend: a map guarded by a RWMutex. It is the
// reference implementation of the query predicates and the fixture the
// other backends are checked against.
type Mem struct {
	mu   sync.RWMutex
	rows map[string]Row
}

// NewMem returns an empty in-memory store.
func NewMem() *Mem {
	return &Mem{rows: make(map[string]Row)}
}

func (m *Mem) Put(_ context.Context, info *agent.Info) error {
	row, err := rowFromInfo(info)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[string(row.Key)] = row
	return nil
}

func (m *Mem) ScanAll(_ context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		r.Key = append([]byte(nil), r.Key...)
		r.Blob = append([]byte(nil), r.Blob...)
		out = append(out, r)
	}
	return out, nil
}

func (m *Mem) CountCovering(_ context.Context, loc uint32) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.rows {
		if r.Split.Covers(loc) {
			n++
		}
	}
	return n, nil
}

func (m *Mem) CountOverlapping(_ context.Context, a arc.Arc) (int, error) {
	q := a.Split()
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.rows {
		if r.Split.Overlaps(q) {
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored records.
func (m *Mem) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *Mem) Close() error {
	return nil
}
