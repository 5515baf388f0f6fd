package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/arclabs/arcstore/pkg/agent"
	"github.com/arclabs/arcstore/pkg/arc"
)

// p2p_store keeps one row per agent key. The primary key replaces on
// conflict, which gives Put its insert-or-full-replace semantics inside a
// single statement. The arc columns are nullable pairwise: both null for
// the empty arc, both set otherwise.
const createTableSQL = `CREATE TABLE IF NOT EXISTS p2p_store (
	key          BLOB    PRIMARY KEY ON CONFLICT REPLACE,
	blob         BLOB    NOT NULL,
	signed_at_ms INTEGER NOT NULL,
	center_loc   INTEGER NOT NULL,
	half_length  INTEGER NOT NULL,
	arc_start1   INTEGER NULL,
	arc_end1     INTEGER NULL,
	arc_start2   INTEGER NULL,
	arc_end2     INTEGER NULL
);`

const insertSQL = `INSERT INTO p2p_store (
	key, blob, signed_at_ms, center_loc, half_length,
	arc_start1, arc_end1, arc_start2, arc_end2
) VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9);`

const scanSQL = `SELECT key, blob, signed_at_ms, center_loc, half_length,
	arc_start1, arc_end1, arc_start2, arc_end2
FROM p2p_store;`

// Coverage is one indexable range predicate per sub-range pair.
const countCoveringSQL = `SELECT COUNT(key)
FROM p2p_store
WHERE (
	arc_start1 IS NOT NULL
	AND arc_end1 IS NOT NULL
	AND ?1 >= arc_start1
	AND ?1 <= arc_end1
)
OR (
	arc_start2 IS NOT NULL
	AND arc_end2 IS NOT NULL
	AND ?1 >= arc_start2
	AND ?1 <= arc_end2
);`

// Overlap checks every pairwise combination of the query's and the row's
// sub-ranges; a pair with either side null contributes nothing.
const countOverlappingSQL = `SELECT COUNT(key)
FROM p2p_store
WHERE (
	?1 IS NOT NULL AND ?2 IS NOT NULL
	AND arc_start1 IS NOT NULL AND arc_end1 IS NOT NULL
	AND ?1 <= arc_end1 AND ?2 >= arc_start1
)
OR (
	?1 IS NOT NULL AND ?2 IS NOT NULL
	AND arc_start2 IS NOT NULL AND arc_end2 IS NOT NULL
	AND ?1 <= arc_end2 AND ?2 >= arc_start2
)
OR (
	?3 IS NOT NULL AND ?4 IS NOT NULL
	AND arc_start1 IS NOT NULL AND arc_end1 IS NOT NULL
	AND ?3 <= arc_end1 AND ?4 >= arc_start1
)
OR (
	?3 IS NOT NULL AND ?4 IS NOT NULL
	AND arc_start2 IS NOT NULL AND arc_end2 IS NOT NULL
	AND ?3 <= arc_end2 AND ?4 >= arc_start2
);`

// SQLite is the database/sql backend. The driver is cgo-free, so the
// store works anywhere the module compiles.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (or creates) the store at dsn. Use ":memory:" for an
// ephemeral store. A nil logger disables logging.
func OpenSQLite(dsn string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %q: %w", dsn, err)
	}
	// A single connection keeps ":memory:" stores coherent across the
	// pool and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create p2p_store schema: %w", err)
	}
	log.Info("opened sqlite store", zap.String("dsn", dsn))
	return &SQLite{db: db, log: log}, nil
}

func (s *SQLite) Put(ctx context.Context, info *agent.Info) error {
	row, err := rowFromInfo(info)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, insertSQL,
		row.Key,
		row.Blob,
		int64(row.SignedAtMs),
		int64(row.CenterLoc),
		int64(row.HalfLength),
		nullLoc(row.Split.Start1),
		nullLoc(row.Split.End1),
		nullLoc(row.Split.Start2),
		nullLoc(row.Split.End2),
	)
	if err != nil {
		return fmt.Errorf("store: insert record: %w", err)
	}
	return nil
}

func (s *SQLite) ScanAll(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, scanSQL)
	if err != nil {
		return nil, fmt.Errorf("store: scan records: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r                  Row
			signedAtMs         int64
			center, halfLength int64
			s1, e1, s2, e2     sql.NullInt64
		)
		if err := rows.Scan(&r.Key, &r.Blob, &signedAtMs, &center, &halfLength, &s1, &e1, &s2, &e2); err != nil {
			return nil, fmt.Errorf("store: scan record row: %w", err)
		}
		r.SignedAtMs = uint64(signedAtMs)
		r.CenterLoc = uint32(center)
		r.HalfLength = uint32(halfLength)
		r.Split = arc.SplitRange{
			Start1: fromNull(s1),
			End1:   fromNull(e1),
			Start2: fromNull(s2),
			End2:   fromNull(e2),
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan records: %w", err)
	}
	return out, nil
}

func (s *SQLite) CountCovering(ctx context.Context, loc uint32) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, countCoveringSQL, int64(loc)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count covering %#x: %w", loc, err)
	}
	return n, nil
}

func (s *SQLite) CountOverlapping(ctx context.Context, a arc.Arc) (int, error) {
	q := a.Split()
	var n int
	err := s.db.QueryRowContext(ctx, countOverlappingSQL,
		nullLoc(q.Start1), nullLoc(q.End1), nullLoc(q.Start2), nullLoc(q.End2),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count overlapping %+v: %w", a, err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullLoc(p *uint32) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func fromNull(v sql.NullInt64) *uint32 {
	if !v.Valid {
		return nil
	}
	u := uint32(v.Int64)
	return &u
}
