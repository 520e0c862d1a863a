package csp

import "github.com/rbscholtus/layoutgen/internal/rangeset"

// DomainWalker assigns a value to each key subject to unary and binary
// constraints, maintaining a per-key RestrictedRange of currently possible
// values plus arc-support counters for every constrained (origin, target)
// pair. assign/unassign propagate support loss and gain depth-first until
// the work queue drains.
type DomainWalker struct {
	domain  *Domain
	mapping []int // per key: assigned value, or -1
	ranges  []*rangeset.RestrictedRange

	// support[origin][target][t] counts how many of origin's currently
	// present values still support target value t. It exists only for
	// pairs with a registered constraint.
	support map[[2]int][]int

	toRemove []pendingChange
	toAdd    []pendingChange
}

type pendingChange struct {
	key, value int
}

// NewDomainWalker builds a walker over domain, applying unary restrictions
// and seeding the support counters from the initial (unary-restricted)
// per-key ranges.
func NewDomainWalker(domain *Domain) *DomainWalker {
	w := &DomainWalker{
		domain:  domain,
		mapping: make([]int, domain.NumKeys),
		ranges:  make([]*rangeset.RestrictedRange, domain.NumKeys),
		support: make(map[[2]int][]int),
	}
	for k := range w.mapping {
		w.mapping[k] = -1
	}
	for k := 0; k < domain.NumKeys; k++ {
		r := rangeset.New(domain.NumValues)
		if ur := domain.KeyRestrictions[k]; ur != nil {
			if ur.Kind == Only {
				r.AddRestriction(ur.Values)
			} else {
				r.AddRejection(ur.Values)
			}
		}
		w.ranges[k] = r
	}

	for origin := 0; origin < domain.NumKeys; origin++ {
		for target := 0; target < domain.NumKeys; target++ {
			if origin == target || domain.Constraints[origin][target] == nil {
				continue
			}
			counts := make([]int, domain.NumValues)
			for _, v := range w.ranges[origin].Accepted() {
				for _, t := range domain.SupportedTargets(origin, target, v) {
					counts[t]++
				}
			}
			w.support[[2]int{origin, target}] = counts
		}
	}
	for origin := 0; origin < domain.NumKeys; origin++ {
		for target := 0; target < domain.NumKeys; target++ {
			counts, ok := w.support[[2]int{origin, target}]
			if !ok {
				continue
			}
			for t, c := range counts {
				if c == 0 {
					wasAccepted := w.ranges[target].Accepts(t)
					w.ranges[target].AddRejection([]int{t})
					if wasAccepted {
						w.toRemove = append(w.toRemove, pendingChange{key: target, value: t})
					}
				}
			}
		}
	}
	w.drainRemove()
	return w
}

// Range returns key's current RestrictedRange.
func (w *DomainWalker) Range(key int) *rangeset.RestrictedRange { return w.ranges[key] }

// Value returns key's assigned value, or -1 if unassigned.
func (w *DomainWalker) Value(key int) int { return w.mapping[key] }

// Assign pins key to value: restricts key's range to {value}, then
// propagates the resulting loss of support to every other key depth-first.
func (w *DomainWalker) Assign(key, value int) {
	dropped := w.ranges[key].AddRestriction([]int{value})
	w.mapping[key] = value
	for _, v := range dropped {
		w.loseOriginValue(key, v)
	}
	w.drainRemove()
}

// Unassign reverses a prior Assign(key, ...), restoring every value it
// displaced and propagating the resulting support gain depth-first.
func (w *DomainWalker) Unassign(key int) {
	value := w.mapping[key]
	w.mapping[key] = -1
	restored := w.ranges[key].RemoveRestriction([]int{value})
	for _, v := range restored {
		w.gainOriginValue(key, v)
	}
	w.drainAdd()
}

func (w *DomainWalker) loseOriginValue(origin, value int) {
	for target := 0; target < w.domain.NumKeys; target++ {
		counts, ok := w.support[[2]int{origin, target}]
		if !ok {
			continue
		}
		for _, t := range w.domain.SupportedTargets(origin, target, value) {
			counts[t]--
			if counts[t] == 0 {
				wasAccepted := w.ranges[target].Accepts(t)
				w.ranges[target].AddRejection([]int{t})
				if wasAccepted {
					w.toRemove = append(w.toRemove, pendingChange{key: target, value: t})
				}
			}
		}
	}
}

func (w *DomainWalker) gainOriginValue(origin, value int) {
	for target := 0; target < w.domain.NumKeys; target++ {
		counts, ok := w.support[[2]int{origin, target}]
		if !ok {
			continue
		}
		for _, t := range w.domain.SupportedTargets(origin, target, value) {
			counts[t]++
			if counts[t] == 1 {
				w.ranges[target].RemoveRejection([]int{t})
				if w.ranges[target].Accepts(t) {
					w.toAdd = append(w.toAdd, pendingChange{key: target, value: t})
				}
			}
		}
	}
}

// drainRemove processes the support-loss queue depth-first (LIFO) until
// empty, mirroring the propagation in Assign.
func (w *DomainWalker) drainRemove() {
	for len(w.toRemove) > 0 {
		n := len(w.toRemove) - 1
		c := w.toRemove[n]
		w.toRemove = w.toRemove[:n]
		w.loseOriginValue(c.key, c.value)
	}
}

// drainAdd processes the support-gain queue depth-first (LIFO) until empty,
// mirroring the propagation in Unassign.
func (w *DomainWalker) drainAdd() {
	for len(w.toAdd) > 0 {
		n := len(w.toAdd) - 1
		c := w.toAdd[n]
		w.toAdd = w.toAdd[:n]
		w.gainOriginValue(c.key, c.value)
	}
}
