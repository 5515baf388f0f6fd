package arc

import "fmt"

// Segment is a single ascending linear range, both bounds inclusive.
type Segment struct {
	Start uint32
	End   uint32
}

// Contains reports whether loc falls inside the segment.
func (s Segment) Contains(loc uint32) bool {
	return loc >= s.Start && loc <= s.End
}

// Overlaps reports whether two segments share at least one location.
func (s Segment) Overlaps(o Segment) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// SplitRange is the storage-ready decomposition of one arc: up to two
// disjoint ascending segments. Each pointer pair is either both set or
// both nil, and a present pair always has start <= end. The all-nil value
// encodes the empty arc and matches nothing.
//
// The msgpack tags fix the wire names used by the etcd backend; the SQL
// backend maps the same four fields onto its nullable arc columns.
type SplitRange struct {
	Start1 *uint32 `msgpack:"start_1"`
	End1   *uint32 `msgpack:"end_1"`
	Start2 *uint32 `msgpack:"start_2"`
	End2   *uint32 `msgpack:"end_2"`
}

// Split decomposes a bound pair into linear segments:
//
//	Empty          -> no segments
//	Linear(s, e)   -> [s, e]
//	Wrapping(s, e) -> [0, e] + [s, MaxLoc]
//
// Bounds outside the three legal shapes mean the arc source broke its
// contract; Split panics rather than guessing.
func Split(b Bounds) SplitRange {
	switch b.Kind {
	case BoundsEmpty:
		return SplitRange{}
	case BoundsLinear:
		if b.Start > b.End {
			panic(fmt.Sprintf("arc: linear bounds with start %#x > end %#x", b.Start, b.End))
		}
		return SplitRange{Start1: locPtr(b.Start), End1: locPtr(b.End)}
	case BoundsWrapping:
		if b.Start <= b.End {
			panic(fmt.Sprintf("arc: wrapping bounds with start %#x <= end %#x", b.Start, b.End))
		}
		return SplitRange{
			Start1: locPtr(MinLoc),
			End1:   locPtr(b.End),
			Start2: locPtr(b.Start),
			End2:   locPtr(MaxLoc),
		}
	default:
		panic(fmt.Sprintf("arc: invalid bounds kind %d", b.Kind))
	}
}

// Split is shorthand for Split(a.Bounds()).
func (a Arc) Split() SplitRange {
	return Split(a.Bounds())
}

// Segments returns the present segments in ascending order.
func (r SplitRange) Segments() []Segment {
	segs := make([]Segment, 0, 2)
	if r.Start1 != nil && r.End1 != nil {
		segs = append(segs, Segment{Start: *r.Start1, End: *r.End1})
	}
	if r.Start2 != nil && r.End2 != nil {
		segs = append(segs, Segment{Start: *r.Start2, End: *r.End2})
	}
	return segs
}

// IsEmpty reports whether the range has no segments at all.
func (r SplitRange) IsEmpty() bool {
	return r.Start1 == nil && r.Start2 == nil
}

// Covers reports whether any segment contains loc.
func (r SplitRange) Covers(loc uint32) bool {
	for _, s := range r.Segments() {
		if s.Contains(loc) {
			return true
		}
	}
	return false
}

// Overlaps reports whether any of the up-to-four pairwise segment
// combinations intersect. A side with no segments never matches, so the
// empty range overlaps nothing, including itself.
func (r SplitRange) Overlaps(q SplitRange) bool {
	for _, rs := range r.Segments() {
		for _, qs := range q.Segments() {
			if rs.Overlaps(qs) {
				return true
			}
		}
	}
	return false
}

func locPtr(v uint32) *uint32 {
	return &v
}
