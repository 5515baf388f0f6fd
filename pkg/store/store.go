// Package store holds agent records keyed by identity, each carrying its
// arc decomposed into indexable linear sub-ranges, and answers coverage
// and overlap counts over them. Three backends share one contract: an
// in-memory map, SQLite, and etcd.
package store

import (
	"context"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
)

// Row is the persisted layout of one record: the identity key, the
// encoded payload blob, the signing timestamp, the arc parameters kept
// for reconstruction, and the derived split-range columns. The split pair
// columns are nullable and pairwise null/non-null.
type Row struct {
	Key        []byte         `msgpack:"key"`
	Blob       []byte         `msgpack:"blob"`
	SignedAtMs uint64         `msgpack:"signed_at_ms"`
	CenterLoc  uint32         `msgpack:"center_loc"`
	HalfLength uint32         `msgpack:"half_length"`
	Split      arc.SplitRange `msgpack:"split"`
}

// Store is the record table contract. Put inserts or fully replaces the
// record for its key; a single Put is atomic, readers never observe a
// partially written split range. The queries are pure reads. Backends may
// block on I/O, so every call takes a context.
type Store interface {
	Put(ctx context.Context, info *agent.Info) error
	ScanAll(ctx context.Context) ([]Row, error)
	CountCovering(ctx context.Context, loc uint32) (int, error)
	CountOverlapping(ctx context.Context, a arc.Arc) (int, error)
	Close() error
}

// rowFromInfo derives the stored form of a record: the msgpack blob plus
// the split columns computed from the storage arc.
func rowFromInfo(info *agent.Info) (Row, error) {
	blob, err := info.Encode()
	if err != nil {
		return Row{}, err
	}
	return Row{
		Key:        append([]byte(nil), info.Key[:]...),
		Blob:       blob,
		SignedAtMs: info.SignedAtMs,
		CenterLoc:  info.StorageArc.Center,
		HalfLength: info.StorageArc.HalfLength,
		Split:      info.StorageArc.Split(),
	}, nil
}
