package arc

import (
	"math/rand"
	"testing"
)

func TestSplitEmpty(t *testing.T) {
	r := Split(New(0, 0).Bounds())
	if r.Start1 != nil || r.End1 != nil || r.Start2 != nil || r.End2 != nil {
		t.Fatalf("Split(empty) = %+v, want all nil", r)
	}
	if !r.IsEmpty() {
		t.Fatal("IsEmpty() = false for the empty split range")
	}
	if len(r.Segments()) != 0 {
		t.Fatalf("Segments() = %v, want none", r.Segments())
	}
}

func TestSplitLinear(t *testing.T) {
	r := Split(Bounds{Kind: BoundsLinear, Start: 100, End: 200})
	if r.Start1 == nil || r.End1 == nil {
		t.Fatal("first pair unset for linear bounds")
	}
	if *r.Start1 != 100 || *r.End1 != 200 {
		t.Fatalf("first pair = [%d, %d], want [100, 200]", *r.Start1, *r.End1)
	}
	if r.Start2 != nil || r.End2 != nil {
		t.Fatal("second pair set for linear bounds")
	}
}

func TestSplitWrapping(t *testing.T) {
	// center 0, half MaxLoc/2: the concrete wraparound decomposition.
	r := New(0, 0x7FFFFFFF).Split()
	want := [4]uint32{0, 0x3FFFFFFF, 0xC0000000, 0xFFFFFFFF}
	got := [4]*uint32{r.Start1, r.End1, r.Start2, r.End2}
	for i, p := range got {
		if p == nil {
			t.Fatalf("field %d unset, want %#x", i, want[i])
		}
		if *p != want[i] {
			t.Fatalf("field %d = %#x, want %#x", i, *p, want[i])
		}
	}

	// Derived segments are ascending and disjoint.
	segs := r.Segments()
	if len(segs) != 2 {
		t.Fatalf("Segments() len = %d, want 2", len(segs))
	}
	for _, s := range segs {
		if s.Start > s.End {
			t.Fatalf("segment %+v not ascending", s)
		}
	}
	if segs[0].End >= segs[1].Start {
		t.Fatalf("segments %+v and %+v not disjoint", segs[0], segs[1])
	}
}

func TestSplitPairInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		a := New(rng.Uint32(), rng.Uint32())
		r := a.Split()
		if (r.Start1 == nil) != (r.End1 == nil) {
			t.Fatalf("arc %+v: first pair half set", a)
		}
		if (r.Start2 == nil) != (r.End2 == nil) {
			t.Fatalf("arc %+v: second pair half set", a)
		}
		if r.Start2 != nil && r.Start1 == nil {
			t.Fatalf("arc %+v: second pair without first", a)
		}
		for _, s := range r.Segments() {
			if s.Start > s.End {
				t.Fatalf("arc %+v: segment %+v not ascending", a, s)
			}
		}
	}
}

func TestSplitBadBoundsPanics(t *testing.T) {
	bad := []Bounds{
		{Kind: BoundsLinear, Start: 5, End: 3},
		{Kind: BoundsWrapping, Start: 3, End: 5},
		{Kind: BoundsWrapping, Start: 4, End: 4},
		{Kind: BoundsKind(9), Start: 1, End: 2},
	}
	for _, b := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Split(%+v) did not panic", b)
				}
			}()
			Split(b)
		}()
	}
}

func TestSplitRangeCovers(t *testing.T) {
	empty := New(42, 0).Split()
	for _, loc := range []uint32{0, 41, 42, 43, MaxLoc} {
		if empty.Covers(loc) {
			t.Errorf("empty range covers %#x", loc)
		}
	}

	linear := Split(Bounds{Kind: BoundsLinear, Start: 100, End: 200})
	for loc, want := range map[uint32]bool{99: false, 100: true, 200: true, 201: false} {
		if got := linear.Covers(loc); got != want {
			t.Errorf("linear Covers(%d) = %v, want %v", loc, got, want)
		}
	}

	wrapping := New(0, 0x7FFFFFFF).Split()
	for loc, want := range map[uint32]bool{
		0:          true,
		0x3FFFFFFF: true,
		0x40000000: false,
		0x80000000: false,
		0xC0000000: true,
		MaxLoc:     true,
	} {
		if got := wrapping.Covers(loc); got != want {
			t.Errorf("wrapping Covers(%#x) = %v, want %v", loc, got, want)
		}
	}
}

func TestSplitRangeOverlaps(t *testing.T) {
	// Stored arc [100, 200].
	stored := New(150, 100).Split()

	// Query [150, 300]: 100 <= 300 and 150 <= 200.
	if !stored.Overlaps(New(225, 150).Split()) {
		t.Fatal("[100,200] should overlap [150,300]")
	}
	// Query [201, 300]: adjacent but disjoint.
	if stored.Overlaps(New(251, 99).Split()) {
		t.Fatal("[100,200] should not overlap [201,300]")
	}
	// Touching at a single point still overlaps.
	if !stored.Overlaps(Split(Bounds{Kind: BoundsLinear, Start: 200, End: 300})) {
		t.Fatal("[100,200] should overlap [200,300]")
	}
	// Empty never overlaps, in either position.
	emptyQ := New(5, 0).Split()
	if stored.Overlaps(emptyQ) || emptyQ.Overlaps(stored) || emptyQ.Overlaps(emptyQ) {
		t.Fatal("empty range overlapped something")
	}
	// A wrapping query hits a linear record through its second segment.
	wrapping := New(0, 0x7FFFFFFF).Split() // [0,0x3FFFFFFF] + [0xC0000000,MaxLoc]
	high := Split(Bounds{Kind: BoundsLinear, Start: 0xD0000000, End: 0xD0000100})
	if !wrapping.Overlaps(high) || !high.Overlaps(wrapping) {
		t.Fatal("wrapping range should overlap a record inside its high segment")
	}
	mid := Split(Bounds{Kind: BoundsLinear, Start: 0x50000000, End: 0x60000000})
	if wrapping.Overlaps(mid) {
		t.Fatal("wrapping range overlapped the gap between its segments")
	}
}

func TestOverlapSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		a := New(rng.Uint32(), rng.Uint32()%(MaxLoc/2)).Split()
		b := New(rng.Uint32(), rng.Uint32()%(MaxLoc/2)).Split()
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("overlap not symmetric for %+v vs %+v", a, b)
		}
	}
}

// The split decomposition must agree with containment evaluated directly
// on the circle, boundary locations included.
func TestSplitMatchesCircularContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		a := New(rng.Uint32(), rng.Uint32())
		b := a.Bounds()
		r := a.Split()

		locs := []uint32{0, MaxLoc, a.Center, rng.Uint32(), rng.Uint32()}
		if b.Kind != BoundsEmpty {
			locs = append(locs, b.Start-1, b.Start, b.End, b.End+1)
		}
		for _, loc := range locs {
			if got, want := r.Covers(loc), a.Contains(loc); got != want {
				t.Fatalf("arc %+v at %#x: split covers %v, circle contains %v",
					a, loc, got, want)
			}
		}
	}
}
