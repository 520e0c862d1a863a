// Package layout holds the live layout state (token_map / keymap / group_map
// triple, mutated only by Apply), the breadth-first displacement resolver,
// and the lazy move generator built on top of them.
package layout

import "github.com/rbscholtus/layoutgen/internal/model"

// Layout is the three mutually derivable maps described by the domain
// model: token→location, location→optional token, group→key. Apply is the
// only mutator. The three maps are consistent again once every assignment of
// an alteration built by Resolve has been applied in order; a single Apply
// onto an occupied location leaves the displaced token's entries stale.
type Layout struct {
	KB *model.KbDef

	TokenMap []model.LocID    // per TokenID
	Keymap   []model.TokenID  // per LocID, model.NoToken if empty
	GroupMap []model.KeyID    // per GroupID, model.NoKey if unplaced
}

// New builds an empty Layout over kb with every token and group unplaced.
func New(kb *model.KbDef) *Layout {
	keymap := make([]model.TokenID, kb.NumKeys*kb.NumLayers)
	for i := range keymap {
		keymap[i] = model.NoToken
	}
	tokenMap := make([]model.LocID, kb.NumTokens)
	for i := range tokenMap {
		tokenMap[i] = -1
	}
	groupMap := make([]model.KeyID, kb.NumGroups())
	for i := range groupMap {
		groupMap[i] = model.NoKey
	}
	return &Layout{KB: kb, TokenMap: tokenMap, Keymap: keymap, GroupMap: groupMap}
}

// FromTokenMap builds a Layout from a complete token→location mapping,
// deriving Keymap and GroupMap from it.
func FromTokenMap(kb *model.KbDef, tokenMap []model.LocID) *Layout {
	l := New(kb)
	copy(l.TokenMap, tokenMap)
	for tok, loc := range tokenMap {
		l.Keymap[loc] = model.TokenID(tok)
	}
	for gid, g := range kb.Groups {
		var anyTok model.TokenID = -1
		if g.Kind == model.GroupLockKind {
			members := kb.Locks[g.Lock].Members()
			if len(members) > 0 {
				anyTok = members[0].Token
			}
		} else {
			anyTok = kb.Frees[g.Free].Token
		}
		if anyTok != -1 {
			l.GroupMap[gid] = kb.Key(tokenMap[anyTok])
		}
	}
	return l
}

// assignToken places tok at loc, updating TokenMap and Keymap. The previous
// location's Keymap entry is cleared only when loc itself was empty before
// this call, mirroring the original displacement-resolver contract: when
// loc already held a token, the caller is responsible for having already
// planned that token's own relocation.
func (l *Layout) assignToken(tok model.TokenID, loc model.LocID) {
	prevLoc := l.TokenMap[tok]
	destWasEmpty := l.Keymap[loc] == model.NoToken
	l.Keymap[loc] = tok
	l.TokenMap[tok] = loc
	if destWasEmpty && prevLoc >= 0 {
		l.Keymap[prevLoc] = model.NoToken
	}
}

// Apply performs the single mutation primitive: move the assignment's group
// to its new key (or location, for a free), updating GroupMap, TokenMap and
// Keymap together.
func (l *Layout) Apply(a model.Assignment) {
	gid := l.KB.Group(a)
	if a.Kind == model.AssignLockKind {
		l.GroupMap[gid] = a.Key
		for _, m := range l.KB.Locks[a.Lock].Members() {
			loc := l.KB.Loc(a.Key, m.Layer)
			l.assignToken(m.Token, loc)
		}
	} else {
		l.GroupMap[gid] = l.KB.Key(a.Loc)
		free := l.KB.Frees[a.Free]
		l.assignToken(free.Token, a.Loc)
	}
}

// Clone makes an independent deep copy of the layout.
func (l *Layout) Clone() *Layout {
	return &Layout{
		KB:       l.KB,
		TokenMap: append([]model.LocID(nil), l.TokenMap...),
		Keymap:   append([]model.TokenID(nil), l.Keymap...),
		GroupMap: append([]model.KeyID(nil), l.GroupMap...),
	}
}
