// Package rangeset implements the segmented-permutation data structure
// (SegmentedPermutation, layered with a rejection counter in
// RestrictedRange) that drives arc-consistency propagation in the CSP
// walker: push/pop of restriction layers and addition/removal of rejection
// multisets in time proportional to the number of affected values.
package rangeset

// Segment is one layer of a SegmentedPermutation: a contiguous slice of the
// permutation array, itself split into a rejection zone
// [Offset, Offset+NumRejected) and an acceptance zone running to the start
// of the next segment (or the end of the array, for the top segment).
type Segment struct {
	Offset      int
	NumRejected int
}

// SegmentedPermutation holds a permutation of a dense domain [0, n) plus a
// stack of segments. Only the top segment's acceptance zone is externally
// "accepted"; lower segments hold values made inaccessible by a still-active
// restriction layer.
type SegmentedPermutation struct {
	items       []int
	pos         []int
	itemSegment []int
	segments    []Segment
}

// NewSegmentedPermutation builds the identity permutation over [0, n) with
// a single base segment and no rejections.
func NewSegmentedPermutation(n int) *SegmentedPermutation {
	items := make([]int, n)
	pos := make([]int, n)
	itemSegment := make([]int, n)
	for i := range items {
		items[i] = i
		pos[i] = i
	}
	return &SegmentedPermutation{
		items:       items,
		pos:         pos,
		itemSegment: itemSegment,
		segments:    []Segment{{Offset: 0, NumRejected: 0}},
	}
}

func (sp *SegmentedPermutation) swap(i, j int) {
	if i == j {
		return
	}
	vi, vj := sp.items[i], sp.items[j]
	sp.items[i], sp.items[j] = vj, vi
	sp.pos[vi], sp.pos[vj] = j, i
}

// Len is the size of the full domain.
func (sp *SegmentedPermutation) Len() int { return len(sp.items) }

// Depth is the number of active restriction layers (always ≥ 1).
func (sp *SegmentedPermutation) Depth() int { return len(sp.segments) }

// segEnd returns the end index (exclusive) of segment idx's zone.
func (sp *SegmentedPermutation) segEnd(idx int) int {
	if idx == len(sp.segments)-1 {
		return len(sp.items)
	}
	return sp.segments[idx+1].Offset
}

// TopAccepted returns the top segment's acceptance zone: the values
// currently visible and not individually rejected.
func (sp *SegmentedPermutation) TopAccepted() []int {
	top := sp.segments[len(sp.segments)-1]
	return sp.items[top.Offset+top.NumRejected : sp.segEnd(len(sp.segments)-1)]
}

// InTopAcceptedZone reports whether v sits in the top segment's acceptance
// zone, i.e. is both reachable (in the top segment) and unrejected.
func (sp *SegmentedPermutation) InTopAcceptedZone(v int) bool {
	segIdx := sp.itemSegment[v]
	if segIdx != len(sp.segments)-1 {
		return false
	}
	top := sp.segments[segIdx]
	return sp.pos[v] >= top.Offset+top.NumRejected
}

// rejectItem moves v from its segment's acceptance zone into its rejection
// zone. Caller must ensure v is currently accepted within its segment.
func (sp *SegmentedPermutation) rejectItem(v int) {
	segIdx := sp.itemSegment[v]
	seg := &sp.segments[segIdx]
	boundary := seg.Offset + seg.NumRejected
	sp.swap(sp.pos[v], boundary)
	seg.NumRejected++
}

// acceptItem moves v from its segment's rejection zone into its acceptance
// zone. Caller must ensure v is currently rejected within its segment.
func (sp *SegmentedPermutation) acceptItem(v int) {
	segIdx := sp.itemSegment[v]
	seg := &sp.segments[segIdx]
	seg.NumRejected--
	boundary := seg.Offset + seg.NumRejected
	sp.swap(sp.pos[v], boundary)
}

// pushRestriction promotes every value in allowed that currently sits in
// the top segment into a freshly pushed segment; everything else in the top
// segment stays behind, no longer reachable. Returns the values that were
// in the top segment's acceptance zone but were not promoted (became
// inaccessible), in array-scan order.
func (sp *SegmentedPermutation) pushRestriction(allowed map[int]bool, rejected func(v int) bool) []int {
	oldTopIdx := len(sp.segments) - 1
	oldTop := sp.segments[oldTopIdx]
	start := oldTop.Offset
	end := len(sp.items)

	original := append([]int(nil), sp.items[start:end]...)

	var stayRejected, stayAccepted, promoteRejected, promoteAccepted, dropped []int
	for _, v := range original {
		isRejected := rejected(v)
		if allowed[v] {
			if isRejected {
				promoteRejected = append(promoteRejected, v)
			} else {
				promoteAccepted = append(promoteAccepted, v)
			}
		} else {
			if isRejected {
				stayRejected = append(stayRejected, v)
			} else {
				stayAccepted = append(stayAccepted, v)
				dropped = append(dropped, v)
			}
		}
	}

	idx := start
	place := func(vals []int, seg int) {
		for _, v := range vals {
			sp.items[idx] = v
			sp.pos[v] = idx
			sp.itemSegment[v] = seg
			idx++
		}
	}
	place(stayRejected, oldTopIdx)
	place(stayAccepted, oldTopIdx)
	newOffset := idx
	place(promoteRejected, oldTopIdx+1)
	place(promoteAccepted, oldTopIdx+1)

	sp.segments[oldTopIdx] = Segment{Offset: start, NumRejected: len(stayRejected)}
	sp.segments = append(sp.segments, Segment{Offset: newOffset, NumRejected: len(promoteRejected)})
	return dropped
}

// popRestriction merges the top segment down into the one below it,
// repartitioning the combined range by each value's current rejection
// state. Returns the values that were in the (now-removed) lower segment's
// region and individually unrejected, meaning they were inaccessible and
// become accepted again, in array-scan order. Returns ok=false if there is
// only the base segment left.
func (sp *SegmentedPermutation) popRestriction(rejected func(v int) bool) (newlyAccepted []int, ok bool) {
	topIdx := len(sp.segments) - 1
	if topIdx == 0 {
		return nil, false
	}
	belowIdx := topIdx - 1
	below := sp.segments[belowIdx]
	top := sp.segments[topIdx]
	start := below.Offset
	end := len(sp.items)

	original := append([]int(nil), sp.items[start:end]...)

	for _, v := range original {
		if sp.pos[v] < top.Offset && !rejected(v) {
			newlyAccepted = append(newlyAccepted, v)
		}
	}

	var rej, acc []int
	for _, v := range original {
		if rejected(v) {
			rej = append(rej, v)
		} else {
			acc = append(acc, v)
		}
	}

	idx := start
	place := func(vals []int) {
		for _, v := range vals {
			sp.items[idx] = v
			sp.pos[v] = idx
			sp.itemSegment[v] = belowIdx
			idx++
		}
	}
	place(rej)
	place(acc)

	sp.segments[belowIdx] = Segment{Offset: start, NumRejected: len(rej)}
	sp.segments = sp.segments[:topIdx]
	return newlyAccepted, true
}
