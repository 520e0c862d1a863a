// Package config loads the top-level keyboard configuration and the
// generic CSP domain configuration from JSON into model.KbDef / csp.Domain,
// and renders a resolved layout back out as a keymap table.
package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rbscholtus/layoutgen/internal/model"
)

// kbDefJSON is the keyboard configuration wire shape:
// {keys, layers, tokens, locks: [{elems, allowed_keys}], frees: [{token, allowed_locs}]}.
type kbDefJSON struct {
	Keys   []string `json:"keys"`
	Layers []string `json:"layers"`
	Tokens []string `json:"tokens"`
	Locks  []struct {
		Elems       []string `json:"elems"`
		AllowedKeys []string `json:"allowed_keys"`
	} `json:"locks"`
	Frees []struct {
		Token       string   `json:"token"`
		AllowedLocs []string `json:"allowed_locs"`
	} `json:"frees"`
}

// LoadKbDef parses the keyboard configuration JSON into a validated
// model.KbDef, reporting unknown name references as *model.ConfigurationError
// with the offending field path.
func LoadKbDef(r io.Reader) (*model.KbDef, error) {
	var raw kbDefJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, model.WrapConfigurationError("config", err)
	}

	tokenIdx := tokenIndex(raw.Tokens)
	keyIdx := keyIndex(raw.Keys)

	locks := make([]model.Lock, len(raw.Locks))
	for i, l := range raw.Locks {
		if len(l.Elems) != len(raw.Layers) {
			return nil, model.NewConfigurationError("locks.elems", "lock must list one token per configured layer")
		}
		layers := make([]model.TokenID, len(l.Elems))
		for j, name := range l.Elems {
			if name == "" {
				layers[j] = model.NoToken
				continue
			}
			tok, ok := tokenIdx[name]
			if !ok {
				return nil, model.NewConfigurationError("locks.elems", "unknown token name "+name)
			}
			layers[j] = tok
		}
		keys := make([]model.KeyID, len(l.AllowedKeys))
		for j, name := range l.AllowedKeys {
			key, ok := keyIdx[name]
			if !ok {
				return nil, model.NewConfigurationError("locks.allowed_keys", "unknown key name "+name)
			}
			keys[j] = key
		}
		locks[i] = model.Lock{Layers: layers, AllowedKeys: keys}
	}

	frees := make([]model.Free, len(raw.Frees))
	for i, f := range raw.Frees {
		tok, ok := tokenIdx[f.Token]
		if !ok {
			return nil, model.NewConfigurationError("frees.token", "unknown token name "+f.Token)
		}
		locs := make([]model.LocID, len(f.AllowedLocs))
		for j, name := range f.AllowedLocs {
			loc, err := parseLoc(name, keyIdx, raw.Layers, len(raw.Keys))
			if err != nil {
				return nil, err
			}
			locs[j] = loc
		}
		frees[i] = model.Free{Token: tok, AllowedLocs: locs}
	}

	return model.NewKbDef(len(raw.Keys), len(raw.Layers), len(raw.Tokens), raw.Keys, raw.Layers, raw.Tokens, locks, frees)
}

// LoadKbDefFromFile is a convenience wrapper opening path before handing off
// to LoadKbDef.
func LoadKbDefFromFile(path string) (*model.KbDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadKbDef(f)
}

// parseLoc resolves an allowed-location entry of the form "key_name@layer_name".
func parseLoc(s string, keyIdx map[string]model.KeyID, layerNames []string, numKeys int) (model.LocID, error) {
	keyName, layerName, ok := splitAt(s, '@')
	if !ok {
		return 0, model.NewConfigurationError("frees.allowed_locs", "location must be \"key@layer\": "+s)
	}
	key, ok := keyIdx[keyName]
	if !ok {
		return 0, model.NewConfigurationError("frees.allowed_locs", "unknown key name "+keyName)
	}
	layer := -1
	for i, name := range layerNames {
		if name == layerName {
			layer = i
			break
		}
	}
	if layer < 0 {
		return 0, model.NewConfigurationError("frees.allowed_locs", "unknown layer name "+layerName)
	}
	return model.NewLoc(numKeys, key, model.LayerID(layer)), nil
}

func splitAt(s string, sep byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func tokenIndex(names []string) map[string]model.TokenID {
	m := make(map[string]model.TokenID, len(names))
	for i, n := range names {
		m[n] = model.TokenID(i)
	}
	return m
}

func keyIndex(names []string) map[string]model.KeyID {
	m := make(map[string]model.KeyID, len(names))
	for i, n := range names {
		m[n] = model.KeyID(i)
	}
	return m
}
