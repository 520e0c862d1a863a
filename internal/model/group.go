package model

// Lock is a rigid partial layer→token map that occupies exactly one key.
// Layers holds one entry per configured layer; a layer not covered by this
// lock holds NoToken.
type Lock struct {
	Layers      []TokenID
	AllowedKeys []KeyID
}

// LockMember is one (layer, token) entry of a Lock.
type LockMember struct {
	Layer LayerID
	Token TokenID
}

// Members returns the (layer, token) pairs this lock actually covers.
func (l Lock) Members() []LockMember {
	out := make([]LockMember, 0, len(l.Layers))
	for layer, tok := range l.Layers {
		if tok != NoToken {
			out = append(out, LockMember{Layer: LayerID(layer), Token: tok})
		}
	}
	return out
}

// Free is a single token with a set of allowed locations.
type Free struct {
	Token       TokenID
	AllowedLocs []LocID
}

// GroupKind tags a Group as covering a Free or a Lock.
type GroupKind uint8

const (
	GroupFreeKind GroupKind = iota
	GroupLockKind
)

// Group is the tagged union Free(free_id) | Lock(lock_id). Groups partition
// the token domain.
type Group struct {
	Kind GroupKind
	Free FreeID
	Lock LockID
}

// AssignmentKind tags an Assignment as Free{free,location} or Lock{lock,key}.
type AssignmentKind uint8

const (
	AssignFreeKind AssignmentKind = iota
	AssignLockKind
)

// Assignment is the primitive placement: a free token at a location, or a
// lock on a key.
type Assignment struct {
	Kind AssignmentKind
	Free FreeID
	Loc  LocID
	Lock LockID
	Key  KeyID
}

// NewFreeAssignment builds a Free-kind assignment.
func NewFreeAssignment(free FreeID, loc LocID) Assignment {
	return Assignment{Kind: AssignFreeKind, Free: free, Loc: loc}
}

// NewLockAssignment builds a Lock-kind assignment.
func NewLockAssignment(lock LockID, key KeyID) Assignment {
	return Assignment{Kind: AssignLockKind, Lock: lock, Key: key}
}

// Group returns the GroupID that an assignment targets.
func (kb *KbDef) Group(a Assignment) GroupID {
	if a.Kind == AssignFreeKind {
		return kb.FreeGroup[a.Free]
	}
	return kb.LockGroup[a.Lock]
}

// KbDef is the immutable, fully resolved domain description built once from
// configuration: keys, layers, tokens, the lock/free groups that partition
// the tokens, and the filtered assignment space for every group.
type KbDef struct {
	NumKeys   int
	NumLayers int
	NumTokens int

	KeyNames   []string
	LayerNames []string
	TokenNames []string

	Locks []Lock
	Frees []Free

	Groups     []Group
	TokenGroup []GroupID
	FreeGroup  []GroupID
	LockGroup  []GroupID

	// assignments[g] is the AllowedAssignment space for group g, i.e. every
	// Assignment that group is legally allowed to take.
	assignments [][]Assignment
}

// NumGroups is the number of groups (|Frees| + |Locks|) partitioning the
// token domain.
func (kb *KbDef) NumGroups() int { return len(kb.Groups) }

// Assignments returns the allowed assignment space for group g.
func (kb *KbDef) Assignments(g GroupID) []Assignment {
	return kb.assignments[g]
}

// NewKbDef validates and assembles a KbDef from raw locks and frees. Every
// token must belong to exactly one group (partition invariant); every key,
// layer and location referenced must be in range.
func NewKbDef(numKeys, numLayers, numTokens int, keyNames, layerNames, tokenNames []string, locks []Lock, frees []Free) (*KbDef, error) {
	kb := &KbDef{
		NumKeys:    numKeys,
		NumLayers:  numLayers,
		NumTokens:  numTokens,
		KeyNames:   keyNames,
		LayerNames: layerNames,
		TokenNames: tokenNames,
		Locks:      locks,
		Frees:      frees,
	}

	tokenGroup := make([]GroupID, numTokens)
	for i := range tokenGroup {
		tokenGroup[i] = -1
	}

	var groups []Group
	lockGroup := make([]GroupID, len(locks))
	freeGroup := make([]GroupID, len(frees))

	assign := func(tok TokenID, g GroupID, owner string) error {
		if int(tok) < 0 || int(tok) >= numTokens {
			return NewConfigurationError(owner, "token id out of range")
		}
		if tokenGroup[tok] != -1 {
			return NewConfigurationError(owner, "token belongs to more than one group")
		}
		tokenGroup[tok] = g
		return nil
	}

	for li, lock := range locks {
		if len(lock.Layers) != numLayers {
			return nil, NewConfigurationError("locks", "lock layer slice must have one entry per configured layer")
		}
		gid := GroupID(len(groups))
		groups = append(groups, Group{Kind: GroupLockKind, Lock: LockID(li)})
		lockGroup[li] = gid
		for _, m := range lock.Members() {
			if err := assign(m.Token, gid, "locks"); err != nil {
				return nil, err
			}
		}
		for _, k := range lock.AllowedKeys {
			if int(k) < 0 || int(k) >= numKeys {
				return nil, NewConfigurationError("locks.allowed_keys", "key id out of range")
			}
		}
	}

	for fi, free := range frees {
		gid := GroupID(len(groups))
		groups = append(groups, Group{Kind: GroupFreeKind, Free: FreeID(fi)})
		freeGroup[fi] = gid
		if err := assign(free.Token, gid, "frees"); err != nil {
			return nil, err
		}
		for _, loc := range free.AllowedLocs {
			if int(loc) < 0 || int(loc) >= numKeys*numLayers {
				return nil, NewConfigurationError("frees.allowed_locs", "location out of range")
			}
		}
	}

	for t, g := range tokenGroup {
		if g == -1 {
			return nil, NewConfigurationError("tokens", "token "+tokenName(tokenNames, t)+" belongs to no group")
		}
	}

	kb.Groups = groups
	kb.TokenGroup = tokenGroup
	kb.FreeGroup = freeGroup
	kb.LockGroup = lockGroup

	assignments := make([][]Assignment, len(groups))
	for gid, g := range groups {
		if g.Kind == GroupLockKind {
			lock := locks[g.Lock]
			out := make([]Assignment, len(lock.AllowedKeys))
			for i, k := range lock.AllowedKeys {
				out[i] = NewLockAssignment(g.Lock, k)
			}
			assignments[gid] = out
		} else {
			free := frees[g.Free]
			out := make([]Assignment, len(free.AllowedLocs))
			for i, l := range free.AllowedLocs {
				out[i] = NewFreeAssignment(g.Free, l)
			}
			assignments[gid] = out
		}
	}
	kb.assignments = assignments

	return kb, nil
}

func tokenName(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return "?"
}
