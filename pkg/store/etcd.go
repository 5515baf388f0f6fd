package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
)

const defaultEtcdPrefix = "/arcstore/records/"

// Etcd keeps each record as a msgpack-encoded Row under
// <prefix><hex key>. etcd writes a single key atomically, which covers
// the all-or-nothing requirement for a record and its split columns.
// Counts scan the prefix and evaluate the shared predicates client side;
// etcd has no secondary range indexes to push them into.
type Etcd struct {
	cli    *clientv3.Client
	prefix string
	log    *zap.Logger
}

// OpenEtcd connects to the given endpoints. An empty prefix uses the
// default; a nil logger disables logging.
func OpenEtcd(endpoints []string, prefix string, log *zap.Logger) (*Etcd, error) {
	if prefix == "" {
		prefix = defaultEtcdPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect etcd %v: %w", endpoints, err)
	}
	log.Info("opened etcd store",
		zap.Strings("endpoints", endpoints),
		zap.String("prefix", prefix))
	return &Etcd{cli: cli, prefix: prefix, log: log}, nil
}

func (e *Etcd) Put(ctx context.Context, info *agent.Info) error {
	row, err := rowFromInfo(info)
	if err != nil {
		return err
	}
	val, err := msgpack.Marshal(&row)
	if err != nil {
		return fmt.Errorf("store: encode record row: %w", err)
	}
	key := e.prefix + hex.EncodeToString(row.Key)
	if _, err := e.cli.Put(ctx, key, string(val)); err != nil {
		return fmt.Errorf("store: put record %s: %w", key, err)
	}
	return nil
}

func (e *Etcd) ScanAll(ctx context.Context) ([]Row, error) {
	resp, err := e.cli.Get(ctx, e.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("store: scan records under %s: %w", e.prefix, err)
	}
	out := make([]Row, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var r Row
		if err := msgpack.Unmarshal(kv.Value, &r); err != nil {
			return nil, fmt.Errorf("store: decode record %s: %w", kv.Key, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (e *Etcd) CountCovering(ctx context.Context, loc uint32) (int, error) {
	rows, err := e.ScanAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if r.Split.Covers(loc) {
			n++
		}
	}
	return n, nil
}

func (e *Etcd) CountOverlapping(ctx context.Context, a arc.Arc) (int, error) {
	q := a.Split()
	rows, err := e.ScanAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if r.Split.Overlaps(q) {
			n++
		}
	}
	return n, nil
}

func (e *Etcd) Close() error {
	return e.cli.Close()
}
