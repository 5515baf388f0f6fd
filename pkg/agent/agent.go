// Package agent defines the record payload stored for each peer: an
// opaque signing key, the signing timestamp, and the storage arc the
// peer claims over the address space.
package agent

import (
	"fmt"
	"math/rand"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arclabs/arcstore/pkg/arc"
)

// KeySize is the length of an agent's identity key in bytes.
const KeySize = 32

// Info is one agent record. The key is opaque identity; SignedAtMs is the
// millisecond timestamp the record was signed at and versions the record
// on replace.
type Info struct {
	Key        [KeySize]byte `msgpack:"key"`
	SignedAtMs uint64        `msgpack:"signed_at_ms"`
	StorageArc arc.Arc       `msgpack:"storage_arc"`
}

// Encode serializes the record as a msgpack named map, the blob form the
// stores persist alongside the indexed columns.
func (i *Info) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("agent: encode info: %w", err)
	}
	return b, nil
}

// Decode deserializes a blob produced by Encode.
func Decode(b []byte) (*Info, error) {
	var i Info
	if err := msgpack.Unmarshal(b, &i); err != nil {
		return nil, fmt.Errorf("agent: decode info: %w", err)
	}
	return &i, nil
}

// NewRandom draws a record from rng: a random key, a u32-ranged timestamp
// and an arc with half-length uniform in [0, MaxLoc/2). Used for seeding
// and tests.
func NewRandom(rng *rand.Rand) *Info {
	var i Info
	_, _ = rng.Read(i.Key[:])
	i.SignedAtMs = uint64(rng.Uint32())
	i.StorageArc = arc.New(rng.Uint32(), rng.Uint32()%(arc.MaxLoc/2))
	return &i
}
