package rangeset

import "github.com/rbscholtus/layoutgen/internal/model"

// RestrictedRange is a SegmentedPermutation over a dense value domain
// overlaid with a rejection-count table: a value can be rejected by
// several independent causes and is re-accepted only once every cause has
// been lifted (add_rejection/remove_rejection), while add_restriction /
// remove_restriction push and pop an `Only(set)` filter layer.
type RestrictedRange struct {
	perm          *SegmentedPermutation
	timesRejected []int
}

// New builds a RestrictedRange over the domain [0, n) with nothing
// rejected and no restriction layers beyond the base.
func New(n int) *RestrictedRange {
	return &RestrictedRange{
		perm:          NewSegmentedPermutation(n),
		timesRejected: make([]int, n),
	}
}

func (r *RestrictedRange) isRejected(v int) bool { return r.timesRejected[v] > 0 }

// Accepted returns the currently accepted values: the top segment's
// acceptance zone. O(1).
func (r *RestrictedRange) Accepted() []int { return r.perm.TopAccepted() }

// Accepts reports whether v is currently accepted. O(1).
func (r *RestrictedRange) Accepts(v int) bool { return r.perm.InTopAcceptedZone(v) }

// Depth is the number of active restriction layers.
func (r *RestrictedRange) Depth() int { return r.perm.Depth() }

// AddRejection increments times_rejected for each v in vs; whenever a
// counter rises from 0 the value moves from accepted to rejected within its
// segment. Returns the values that made that transition, in input order.
// Empty input is a no-op returning an empty slice.
func (r *RestrictedRange) AddRejection(vs []int) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		r.timesRejected[v]++
		if r.timesRejected[v] == 1 {
			r.perm.rejectItem(v)
			out = append(out, v)
		}
	}
	return out
}

// RemoveRejection decrements times_rejected for each v in vs; whenever a
// counter hits 0 the value moves from rejected to accepted within its
// segment. Returns the values that made that transition, in input order.
// Decrementing a value whose counter is already 0 is a PreconditionViolation.
func (r *RestrictedRange) RemoveRejection(vs []int) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		if r.timesRejected[v] == 0 {
			panic(&model.PreconditionViolation{Op: "RestrictedRange.RemoveRejection", Msg: "value has no outstanding rejection"})
		}
		r.timesRejected[v]--
		if r.timesRejected[v] == 0 {
			r.perm.acceptItem(v)
			out = append(out, v)
		}
	}
	return out
}

// AddRestriction pushes a new `Only(allowed)` layer: every value in allowed
// that is currently in the top segment is promoted into a fresh segment;
// everything else in the former top segment stays behind, no longer
// reachable via Accepted. Returns the values that were accepted but became
// inaccessible, in array order.
func (r *RestrictedRange) AddRestriction(allowed []int) []int {
	set := make(map[int]bool, len(allowed))
	for _, v := range allowed {
		set[v] = true
	}
	return r.perm.pushRestriction(set, r.isRejected)
}

// RemoveRestriction pops the top restriction layer, merging it back into the
// segment below and repartitioning by each value's current rejection state.
// The allowed argument must match the set passed to the corresponding
// AddRestriction call. Returns the values that were inaccessible and become
// accepted again, in array order. Popping below the base segment is a
// PreconditionViolation.
func (r *RestrictedRange) RemoveRestriction(allowed []int) []int {
	_ = allowed
	newlyAccepted, ok := r.perm.popRestriction(r.isRejected)
	if !ok {
		panic(&model.PreconditionViolation{Op: "RestrictedRange.RemoveRestriction", Msg: "no restriction layer to pop below the base segment"})
	}
	return newlyAccepted
}

// ShrinkRemove returns a RestrictedRange over the domain [0, n-1) obtained
// by dropping v and relabeling the previously-last element (n-1) as v,
// preserving segment structure and every value's rejection count.
func (r *RestrictedRange) ShrinkRemove(v int) *RestrictedRange {
	n := len(r.timesRejected)
	last := n - 1

	type entry struct {
		id, seg, rejCount int
	}
	entries := make([]entry, 0, n)
	for _, id := range r.perm.items {
		entries = append(entries, entry{id: id, seg: r.perm.itemSegment[id], rejCount: r.timesRejected[id]})
	}

	out := make([]entry, 0, n-1)
	for _, e := range entries {
		if e.id == v {
			continue
		}
		if e.id == last {
			e.id = v
		}
		out = append(out, e)
	}

	newN := n - 1
	items := make([]int, newN)
	pos := make([]int, newN)
	itemSegment := make([]int, newN)
	timesRejected := make([]int, newN)
	for i, e := range out {
		items[i] = e.id
		pos[e.id] = i
		itemSegment[e.id] = e.seg
		timesRejected[e.id] = e.rejCount
	}

	var segments []Segment
	i := 0
	for i < len(out) {
		seg := out[i].seg
		offset := i
		numRej := 0
		for i < len(out) && out[i].seg == seg {
			if out[i].rejCount > 0 {
				numRej++
			}
			i++
		}
		segments = append(segments, Segment{Offset: offset, NumRejected: numRej})
	}
	if segments == nil {
		segments = []Segment{{Offset: 0, NumRejected: 0}}
	}

	return &RestrictedRange{
		perm: &SegmentedPermutation{
			items:       items,
			pos:         pos,
			itemSegment: itemSegment,
			segments:    segments,
		},
		timesRejected: timesRejected,
	}
}
