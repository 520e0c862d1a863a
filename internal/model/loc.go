package model

// NewLoc encodes a (key, layer) pair as layer*numKeys + key.
func NewLoc(numKeys int, key KeyID, layer LayerID) LocID {
	return LocID(int(layer)*numKeys + int(key))
}

// Key extracts the key component of a location.
func (kb *KbDef) Key(loc LocID) KeyID {
	return KeyID(int(loc) % kb.NumKeys)
}

// Layer extracts the layer component of a location.
func (kb *KbDef) Layer(loc LocID) LayerID {
	return LayerID(int(loc) / kb.NumKeys)
}

// Loc builds a location from a key and a layer.
func (kb *KbDef) Loc(key KeyID, layer LayerID) LocID {
	return NewLoc(kb.NumKeys, key, layer)
}
