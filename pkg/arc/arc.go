// Package arc models membership arcs over the 32-bit circular address
// space. An arc is a contiguous run of locations defined by a center and
// a half-length, wrapping at 2^32. The package turns an arc into an
// inclusive bound pair and decomposes that pair into at most two ascending
// linear segments so that a range-indexed store can answer coverage and
// overlap queries with plain comparisons, no modular arithmetic.
package arc

// MinLoc and MaxLoc bound the circular address space.
const (
	MinLoc uint32 = 0
	MaxLoc uint32 = ^uint32(0)
)

// Arc is a circular interval given by its center location and half-length.
// A non-empty arc spans HalfLength+1 consecutive locations; when the span
// is even the extra location sits on the low side of the center.
// HalfLength zero is the empty arc: it covers no location at all, which is
// distinct from a single-point interval.
type Arc struct {
	Center     uint32 `msgpack:"center_loc"`
	HalfLength uint32 `msgpack:"half_length"`
}

// New returns the arc centered at center with the given half-length.
func New(center, halfLength uint32) Arc {
	return Arc{Center: center, HalfLength: halfLength}
}

// BoundsKind tags the three legal bound-pair shapes an arc can take.
type BoundsKind uint8

const (
	// BoundsEmpty is the zero-length arc; Start and End carry no meaning.
	BoundsEmpty BoundsKind = iota
	// BoundsLinear is an inclusive pair with Start <= End.
	BoundsLinear
	// BoundsWrapping is an inclusive pair with Start > End, crossing the
	// MaxLoc -> 0 boundary.
	BoundsWrapping
)

// Bounds is an arc realized as an inclusive bound pair. Only the three
// shapes above are constructible from an Arc; Split treats anything else
// as a contract violation.
type Bounds struct {
	Kind  BoundsKind
	Start uint32
	End   uint32
}

// Bounds computes the arc's inclusive bound pair with wrapping uint32
// arithmetic. The full circle comes out either as the single linear pair
// [0, MaxLoc] or as a wrapping pair whose segments are adjacent; the two
// derived segments of a wrapping pair are always disjoint.
func (a Arc) Bounds() Bounds {
	if a.HalfLength == 0 {
		return Bounds{Kind: BoundsEmpty}
	}
	h := a.HalfLength
	start := a.Center - (h - h/2)
	end := a.Center + h/2
	if start > end {
		return Bounds{Kind: BoundsWrapping, Start: start, End: end}
	}
	return Bounds{Kind: BoundsLinear, Start: start, End: end}
}

// Contains reports whether loc falls inside the arc, evaluated directly on
// the circle. Queries never use this; it exists as an independent check
// against the split-range predicates.
func (a Arc) Contains(loc uint32) bool {
	b := a.Bounds()
	switch b.Kind {
	case BoundsEmpty:
		return false
	case BoundsLinear:
		return loc >= b.Start && loc <= b.End
	default:
		return loc >= b.Start || loc <= b.End
	}
}
