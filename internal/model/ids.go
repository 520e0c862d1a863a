// Package model defines the dense-identifier domain model shared by every
// other package: keys, layers, tokens, locations, groups and assignments.
// Everything here is built once from configuration and held read-only for
// the lifetime of a search.
package model

// KeyID indexes the configured key domain.
type KeyID int

// LayerID indexes the configured layer domain.
type LayerID int

// TokenID indexes the configured token domain.
type TokenID int

// FreeID indexes the free-group domain.
type FreeID int

// LockID indexes the lock-group domain.
type LockID int

// LocID is a (key, layer) pair encoded as layer*numKeys + key.
type LocID int

// GroupID indexes the combined free/lock group domain; it is the index into
// KbDef.Groups, not a raw FreeID or LockID.
type GroupID int

// AssignmentID indexes the filtered AllowedAssignment space for one group.
type AssignmentID int

// NoKey is the sentinel "no key" value for group_map entries before a
// group has ever been placed.
const NoKey KeyID = -1

// NoToken is the sentinel "empty" value for keymap entries.
const NoToken TokenID = -1
