package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/arcstore/pkg/arc"
)

// These tests need a live etcd; set ARCSTORE_ETCD_ENDPOINTS to run them,
// e.g. ARCSTORE_ETCD_ENDPOINTS=http://localhost:2379 go test ./pkg/store
func openTestEtcd(t *testing.T) *Etcd {
	t.Helper()
	eps := os.Getenv("ARCSTORE_ETCD_ENDPOINTS")
	if eps == "" {
		t.Skip("ARCSTORE_ETCD_ENDPOINTS not set")
	}
	prefix := fmt.Sprintf("/arcstore-test/%d/", time.Now().UnixNano())
	s, err := OpenEtcd(strings.Split(eps, ","), prefix, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEtcdPutScanCount(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s := openTestEtcd(t)

	require.NoError(t, s.Put(ctx, infoWithArc(1, arc.New(150, 100)))) // [100, 200]
	require.NoError(t, s.Put(ctx, infoWithArc(2, arc.New(0, 0))))

	// Replace the first record in full.
	replaced := infoWithArc(1, arc.New(150, 100))
	replaced.SignedAtMs = 9999
	require.NoError(t, s.Put(ctx, replaced))

	rows, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	n, err := s.CountCovering(ctx, 150)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountOverlapping(ctx, arc.New(225, 150)) // [150, 300]
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountOverlapping(ctx, arc.New(150, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}
