package config

import (
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// LayoutFromAssignment builds a Layout from a complete CSP assignment
// produced by csp.Generator.Generate over DomainFromKbDef(kb): mapping[key]
// is the GroupID placed at that physical key. Each group's own Assignment
// (a lock's key, or one of a free's AllowedLocs landing on that key) is
// then applied to derive the full token_map/keymap/group_map state. Returns
// a *model.InfeasibleLayout if mapping does not cover every group (fewer
// keys than groups means no assignment can place them all).
func LayoutFromAssignment(kb *model.KbDef, mapping []int) (*layout.Layout, error) {
	l := layout.New(kb)
	placed := make([]bool, kb.NumGroups())
	for key, gidInt := range mapping {
		gid := model.GroupID(gidInt)
		g := kb.Groups[gid]
		placed[gid] = true
		if g.Kind == model.GroupLockKind {
			l.Apply(model.NewLockAssignment(g.Lock, model.KeyID(key)))
			continue
		}

		free := kb.Frees[g.Free]
		loc, ok := locAtKey(kb, free.AllowedLocs, model.KeyID(key))
		if !ok {
			return nil, model.NewConfigurationError("assignment",
				"no allowed location for free "+kb.TokenNames[free.Token]+" at key "+kb.KeyNames[key])
		}
		l.Apply(model.NewFreeAssignment(g.Free, loc))
	}

	numPlaced := 0
	for _, ok := range placed {
		if ok {
			numPlaced++
		}
	}
	if numPlaced < kb.NumGroups() {
		return nil, &model.InfeasibleLayout{Placed: numPlaced, Total: kb.NumGroups()}
	}
	return l, nil
}

func locAtKey(kb *model.KbDef, locs []model.LocID, key model.KeyID) (model.LocID, bool) {
	for _, loc := range locs {
		if kb.Key(loc) == key {
			return loc, true
		}
	}
	return 0, false
}
