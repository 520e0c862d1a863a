package rangeset

import (
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// checkIntegrity verifies R1-R3: segment offsets are non-decreasing, each
// segment's zones partition its range, item_segment agrees with position,
// and times_rejected[v] > 0 iff v sits in its segment's rejection zone.
func checkIntegrity(t *rapid.T, r *RestrictedRange) {
	t.Helper()
	perm := r.perm
	n := len(perm.items)

	seen := make([]bool, n)
	prevOffset := -1
	for segIdx, seg := range perm.segments {
		if seg.Offset < prevOffset {
			t.Fatalf("segment %d offset %d is less than previous %d", segIdx, seg.Offset, prevOffset)
		}
		prevOffset = seg.Offset
		end := perm.segEnd(segIdx)
		for i := seg.Offset; i < end; i++ {
			v := perm.items[i]
			if seen[v] {
				t.Fatalf("value %d appears in more than one segment slot", v)
			}
			seen[v] = true
			if perm.itemSegment[v] != segIdx {
				t.Fatalf("item_segment[%d]=%d but value sits in segment %d", v, perm.itemSegment[v], segIdx)
			}
			if perm.pos[v] != i {
				t.Fatalf("pos[%d]=%d but value sits at index %d", v, perm.pos[v], i)
			}
			inRejZone := i < seg.Offset+seg.NumRejected
			if inRejZone != r.isRejected(v) {
				t.Fatalf("value %d rejection-zone membership %v disagrees with times_rejected>0 = %v", v, inRejZone, r.isRejected(v))
			}
		}
	}
	for v, ok := range seen {
		if !ok {
			t.Fatalf("value %d missing from permutation", v)
		}
	}
}

func sortedCopy(vs []int) []int {
	out := append([]int(nil), vs...)
	sort.Ints(out)
	return out
}

func setEqual(a, b []int) bool {
	a, b = sortedCopy(a), sortedCopy(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func genDomainSize(t *rapid.T) int {
	return rapid.IntRange(1, 24).Draw(t, "n")
}

func genSubset(t *rapid.T, n int, label string) []int {
	k := rapid.IntRange(0, n).Draw(t, label+"_k")
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	rapid.Permutation(all).Draw(t, label+"_perm")
	return all[:k]
}

func TestRestrictedRangeIntegrity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := genDomainSize(t)
		r := New(n)
		steps := rapid.IntRange(0, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 1).Draw(t, "op") {
			case 0:
				r.AddRejection(genSubset(t, n, "rej"))
			case 1:
				r.AddRestriction(genSubset(t, n, "restrict"))
			}
			checkIntegrity(t, r)
		}
	})
}

func TestRestrictedRangeRejectionRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := genDomainSize(t)
		r := New(n)
		s := genSubset(t, n, "s")

		beforeTimes := append([]int(nil), r.timesRejected...)
		beforeSeg := append([]int(nil), r.perm.itemSegment...)

		r.AddRejection(s)
		r.RemoveRejection(s)

		if !intSliceEqual(beforeTimes, r.timesRejected) {
			t.Fatalf("times_rejected not restored: before=%v after=%v", beforeTimes, r.timesRejected)
		}
		if !intSliceEqual(beforeSeg, r.perm.itemSegment) {
			t.Fatalf("segment membership not restored: before=%v after=%v", beforeSeg, r.perm.itemSegment)
		}
	})
}

func TestRestrictedRangeRestrictionRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := genDomainSize(t)
		r := New(n)
		s := genSubset(t, n, "s")

		beforeAccepted := sortedCopy(r.Accepted())
		beforeDepth := r.Depth()

		r.AddRestriction(s)
		r.RemoveRestriction(s)

		if r.Depth() != beforeDepth {
			t.Fatalf("depth not restored: before=%d after=%d", beforeDepth, r.Depth())
		}
		if !setEqual(beforeAccepted, r.Accepted()) {
			t.Fatalf("accepted set not restored: before=%v after=%v", beforeAccepted, sortedCopy(r.Accepted()))
		}
	})
}

func TestRestrictedRangeRejectionDiffLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := genDomainSize(t)
		r := New(n)
		s := genSubset(t, n, "s")

		before := sortedCopy(r.Accepted())
		newlyRejected := r.AddRejection(s)
		after := sortedCopy(r.Accepted())

		diff := make([]int, 0)
		afterSet := make(map[int]bool, len(after))
		for _, v := range after {
			afterSet[v] = true
		}
		for _, v := range before {
			if !afterSet[v] {
				diff = append(diff, v)
			}
		}
		if !setEqual(diff, newlyRejected) {
			t.Fatalf("diff law violated: accepted-before \\ accepted-after=%v, returned=%v", diff, newlyRejected)
		}
	})
}

func TestRestrictedRangeShrinkLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 24).Draw(t, "n")
		r := New(n)
		steps := rapid.IntRange(0, 6).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			r.AddRejection(genSubset(t, n, "rej"))
		}
		v := rapid.IntRange(0, n-1).Draw(t, "v")
		shrunk := r.ShrinkRemove(v)
		checkIntegrity(t, shrunk)
	})
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRestrictedRangeSingleSegmentNoRejections(t *testing.T) {
	r := New(5)
	if len(r.Accepted()) != 5 {
		t.Fatalf("expected full domain accepted, got %v", r.Accepted())
	}
	r.AddRejection([]int{2})
	if r.Accepts(2) {
		t.Fatalf("value 2 should be rejected")
	}
	if len(r.Accepted()) != 4 {
		t.Fatalf("expected domain size 4 after rejection, got %d", len(r.Accepted()))
	}
}

func TestRestrictedRangeRemoveRejectionBelowZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic removing a rejection that was never added")
		}
	}()
	r := New(3)
	r.RemoveRejection([]int{0})
}

func TestRestrictedRangeRemoveRestrictionBelowBasePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic popping below the base segment")
		}
	}()
	r := New(3)
	r.RemoveRestriction([]int{0, 1, 2})
}
