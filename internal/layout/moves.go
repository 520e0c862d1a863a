package layout

import "github.com/rbscholtus/layoutgen/internal/model"

// Moves lazily enumerates every alteration obtainable by proposing a
// primitive Lock{lock,key} assignment over all lock×key pairs and running
// the resolver, skipping no-ops and alterations already produced by an
// earlier pair. It never buffers the full move set.
type Moves struct {
	l        *Layout
	lockIdx  int
	keyIdx   int
	produced map[[2]int]bool
}

// NewMoves builds a move iterator over l's current state. l must not be
// mutated while the iterator is in use other than via the moves it itself
// yields.
func NewMoves(l *Layout) *Moves {
	return &Moves{l: l, produced: make(map[[2]int]bool)}
}

// Next returns the next alteration, or ok=false once every lock×key pair
// has been considered.
func (m *Moves) Next() (alteration []model.Assignment, ok bool) {
	kb := m.l.KB
	for m.lockIdx < len(kb.Locks) {
		lock := kb.Locks[m.lockIdx]
		lockID := model.LockID(m.lockIdx)
		for m.keyIdx < len(lock.AllowedKeys) {
			key := lock.AllowedKeys[m.keyIdx]
			m.keyIdx++

			if m.produced[[2]int{int(lockID), int(key)}] {
				continue
			}
			if m.l.GroupMap[kb.LockGroup[lockID]] == key {
				continue // no-op: the lock already occupies that key
			}

			alteration = Resolve(m.l, model.NewLockAssignment(lockID, key))
			for _, a := range alteration {
				if a.Kind == model.AssignLockKind {
					m.produced[[2]int{int(a.Lock), int(a.Key)}] = true
				}
			}
			return alteration, true
		}
		m.lockIdx++
		m.keyIdx = 0
	}
	return nil, false
}

// All drains the iterator into a slice. Intended for tests and small
// configurations; production search loops should use Next directly to avoid
// buffering the whole move set.
func All(l *Layout) [][]model.Assignment {
	m := NewMoves(l)
	var out [][]model.Assignment
	for {
		a, ok := m.Next()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}
