package config

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// keymapJSON is the {key_name: {layer_name: token_name}} wire shape of a
// layout.
type keymapJSON map[string]map[string]string

// SaveLayoutToFile writes l as the {key_name: {layer_name: token_name}}
// keymap JSON shape, opening the file and flushing a buffered writer.
func SaveLayoutToFile(path string, kb *model.KbDef, l *layout.Layout) error {
	out := make(keymapJSON, kb.NumKeys)
	for key := 0; key < kb.NumKeys; key++ {
		layers := make(map[string]string, kb.NumLayers)
		for layerIdx := 0; layerIdx < kb.NumLayers; layerIdx++ {
			loc := kb.Loc(model.KeyID(key), model.LayerID(layerIdx))
			tok := l.Keymap[loc]
			if tok == model.NoToken {
				continue
			}
			layers[kb.LayerNames[layerIdx]] = kb.TokenNames[tok]
		}
		out[kb.KeyNames[key]] = layers
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer model.FlushWriter(w)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// LoadLayoutFromFile reads the {key_name: {layer_name: token_name}} keymap
// JSON shape into a Layout over kb.
func LoadLayoutFromFile(path string, kb *model.KbDef) (*layout.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw keymapJSON
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, model.WrapConfigurationError("layout", err)
	}

	keyIdx := keyIndex(kb.KeyNames)
	layerIdx := make(map[string]model.LayerID, len(kb.LayerNames))
	for i, n := range kb.LayerNames {
		layerIdx[n] = model.LayerID(i)
	}
	tokenIdx := tokenIndex(kb.TokenNames)

	tokenMap := make([]model.LocID, kb.NumTokens)
	for i := range tokenMap {
		tokenMap[i] = -1
	}

	for keyName, layers := range raw {
		key, ok := keyIdx[keyName]
		if !ok {
			return nil, model.NewConfigurationError("layout", "unknown key name "+keyName)
		}
		for layerName, tokenName := range layers {
			lay, ok := layerIdx[layerName]
			if !ok {
				return nil, model.NewConfigurationError("layout", "unknown layer name "+layerName)
			}
			tok, ok := tokenIdx[tokenName]
			if !ok {
				return nil, model.NewConfigurationError("layout", "unknown token name "+tokenName)
			}
			tokenMap[tok] = kb.Loc(key, lay)
		}
	}

	for tok, loc := range tokenMap {
		if loc == -1 {
			return nil, model.NewConfigurationError("layout", "token "+kb.TokenNames[tok]+" has no location in layout file")
		}
	}

	return layout.FromTokenMap(kb, tokenMap), nil
}
