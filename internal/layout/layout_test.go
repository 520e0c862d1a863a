package layout

import (
	"testing"

	"github.com/rbscholtus/layoutgen/internal/model"
)

// smallKbDef builds a 3-key, 1-layer board with two single-token locks (L0
// on token 0, L1 on token 1) each allowed on any of the 3 keys, and one free
// token (2) allowed on any key.
func smallKbDef(t *testing.T) *model.KbDef {
	t.Helper()
	locks := []model.Lock{
		{Layers: []model.TokenID{0}, AllowedKeys: []model.KeyID{0, 1, 2}},
		{Layers: []model.TokenID{1}, AllowedKeys: []model.KeyID{0, 1, 2}},
	}
	frees := []model.Free{
		{Token: 2, AllowedLocs: []model.LocID{0, 1, 2}},
	}
	kb, err := model.NewKbDef(3, 1, 3, []string{"k0", "k1", "k2"}, []string{"l0"}, []string{"t0", "t1", "t2"}, locks, frees)
	if err != nil {
		t.Fatalf("NewKbDef: %v", err)
	}
	return kb
}

func checkInvariants(t *testing.T, l *Layout) {
	t.Helper()
	kb := l.KB
	for tok, loc := range l.TokenMap {
		if loc < 0 {
			continue
		}
		if l.Keymap[loc] != model.TokenID(tok) {
			t.Fatalf("I1 violated: token %d at loc %d but keymap[loc]=%d", tok, loc, l.Keymap[loc])
		}
	}
	seen := make(map[model.LocID]model.TokenID)
	for tok, loc := range l.TokenMap {
		if loc < 0 {
			continue
		}
		if other, ok := seen[loc]; ok {
			t.Fatalf("I4 violated: tokens %d and %d both at loc %d", other, tok, loc)
		}
		seen[loc] = model.TokenID(tok)
	}
	for gid, g := range kb.Groups {
		key := l.GroupMap[gid]
		if key == model.NoKey {
			continue
		}
		if g.Kind == model.GroupLockKind {
			for _, m := range kb.Locks[g.Lock].Members() {
				loc := kb.Loc(key, m.Layer)
				if l.TokenMap[m.Token] != loc {
					t.Fatalf("I3 violated: lock member token %d expected at loc %d, got %d", m.Token, loc, l.TokenMap[m.Token])
				}
				if l.Keymap[loc] != m.Token {
					t.Fatalf("I3 violated: keymap at loc %d expected token %d, got %d", loc, m.Token, l.Keymap[loc])
				}
			}
		} else {
			tok := kb.Frees[g.Free].Token
			if kb.Key(l.TokenMap[tok]) != key {
				t.Fatalf("I2 violated: free group key %d disagrees with token location key %d", key, kb.Key(l.TokenMap[tok]))
			}
		}
	}
}

func freshLayout(kb *model.KbDef) *Layout {
	tokenMap := []model.LocID{
		kb.Loc(0, 0), // token 0 (lock 0) at key 0
		kb.Loc(1, 0), // token 1 (lock 1) at key 1
		kb.Loc(2, 0), // token 2 (free) at key 2
	}
	return FromTokenMap(kb, tokenMap)
}

func TestApplyMaintainsInvariants(t *testing.T) {
	kb := smallKbDef(t)
	l := freshLayout(kb)
	checkInvariants(t, l)

	// Each target location is occupied, so each primitive is applied as the
	// full alteration Resolve builds for it, in order.
	for _, a := range Resolve(l, model.NewLockAssignment(0, 1)) {
		l.Apply(a)
	}
	checkInvariants(t, l)

	for _, a := range Resolve(l, model.NewFreeAssignment(0, kb.Loc(0, 0))) {
		l.Apply(a)
	}
	checkInvariants(t, l)
}

func TestResolverSwapsLockIntoOccupiedKey(t *testing.T) {
	kb := smallKbDef(t)
	l := freshLayout(kb)

	alteration := Resolve(l, model.NewLockAssignment(0, 1)) // lock0 (at key0) -> key1 (held by lock1)
	seenGroups := make(map[model.GroupID]bool)
	for _, a := range alteration {
		g := kb.Group(a)
		if seenGroups[g] {
			t.Fatalf("group %d appears more than once in alteration %v", g, alteration)
		}
		seenGroups[g] = true
	}
	if len(alteration) != 2 {
		t.Fatalf("expected a 2-assignment swap cascade, got %v", alteration)
	}

	for _, a := range alteration {
		l.Apply(a)
	}
	checkInvariants(t, l)

	if l.GroupMap[kb.LockGroup[0]] != 1 {
		t.Fatalf("lock0 expected at key1, got %d", l.GroupMap[kb.LockGroup[0]])
	}
	if l.GroupMap[kb.LockGroup[1]] != 0 {
		t.Fatalf("lock1 expected displaced to key0, got %d", l.GroupMap[kb.LockGroup[1]])
	}
}

func TestMovesSkipsNoOpsAndDuplicates(t *testing.T) {
	kb := smallKbDef(t)
	l := freshLayout(kb)

	produced := make(map[[2]int]bool)
	for _, alteration := range All(l) {
		if len(alteration) == 0 {
			t.Fatalf("empty alteration produced")
		}
		first := alteration[0]
		if first.Kind != model.AssignLockKind {
			t.Fatalf("first assignment of every move must be the triggering lock assignment, got %+v", first)
		}
		if l.GroupMap[kb.LockGroup[first.Lock]] == first.Key {
			t.Fatalf("no-op move produced: lock %d already at key %d", first.Lock, first.Key)
		}
		if produced[[2]int{int(first.Lock), int(first.Key)}] {
			t.Fatalf("duplicate move produced for lock %d at key %d", first.Lock, first.Key)
		}
		for _, a := range alteration {
			if a.Kind == model.AssignLockKind {
				produced[[2]int{int(a.Lock), int(a.Key)}] = true
			}
		}
	}
}
