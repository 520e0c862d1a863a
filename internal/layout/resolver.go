package layout

import "github.com/rbscholtus/layoutgen/internal/model"

// Resolve performs the breadth-first displacement cascade for a proposed
// primitive assignment: starting from a0, every token that a0 would
// displace is compensated by moving its group to the location the moving
// group vacates, and so on until no further displacement results. Each
// group appears at most once in the returned alteration; applying the
// assignments in order on l yields a well-formed layout.
func Resolve(l *Layout, a0 model.Assignment) []model.Assignment {
	kb := l.KB
	groupUsed := make(map[model.GroupID]bool)
	assignments := []model.Assignment{a0}
	groupUsed[kb.Group(a0)] = true

	for i := 0; i < len(assignments); i++ {
		a := assignments[i]
		movingGroup := kb.Group(a)
		vacKey, vacLoc, vacLocValid := vacancyOf(kb, l, movingGroup)

		for _, loc := range destinations(kb, a) {
			occ := l.Keymap[loc]
			if occ == model.NoToken {
				continue
			}
			g2 := kb.TokenGroup[occ]
			if groupUsed[g2] {
				continue
			}
			comp := compensate(kb, kb.Groups[g2], g2, loc, vacKey, vacLoc, vacLocValid)
			assignments = append(assignments, comp)
			groupUsed[g2] = true
		}
	}
	return assignments
}

// destinations returns every location a will occupy once applied.
func destinations(kb *model.KbDef, a model.Assignment) []model.LocID {
	if a.Kind == model.AssignFreeKind {
		return []model.LocID{a.Loc}
	}
	members := kb.Locks[a.Lock].Members()
	out := make([]model.LocID, len(members))
	for i, m := range members {
		out[i] = kb.Loc(a.Key, m.Layer)
	}
	return out
}

// vacancyOf reports the key (always) and, for a free group, the exact
// location the group currently occupies before being moved.
func vacancyOf(kb *model.KbDef, l *Layout, g model.GroupID) (key model.KeyID, loc model.LocID, locValid bool) {
	group := kb.Groups[g]
	if group.Kind == model.GroupLockKind {
		return l.GroupMap[g], 0, false
	}
	tok := kb.Frees[group.Free].Token
	loc = l.TokenMap[tok]
	return kb.Key(loc), loc, true
}

// compensate builds the assignment that relocates the displaced group g2 to
// the slot vacated by the moving group: a key-swap when g2 is a lock, a
// location-swap when g2 is a free. triggerLoc is the destination location
// where g2's token was found, used to pick a layer when the vacancy is
// key-only (the moving group was a lock).
func compensate(kb *model.KbDef, g2 model.Group, g2ID model.GroupID, triggerLoc model.LocID, vacKey model.KeyID, vacLoc model.LocID, vacLocValid bool) model.Assignment {
	if g2.Kind == model.GroupLockKind {
		return model.NewLockAssignment(g2.Lock, vacKey)
	}
	if vacLocValid {
		return model.NewFreeAssignment(g2.Free, vacLoc)
	}
	layer := kb.Layer(triggerLoc)
	return model.NewFreeAssignment(g2.Free, kb.Loc(vacKey, layer))
}
