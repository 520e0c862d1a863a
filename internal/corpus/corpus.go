// Package corpus loads weighted n-gram tables from JSON, or derives them by
// counting token frequencies in raw text, over the configured token domain
// rather than a fixed rune alphabet.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// lengthTableJSON is the wire shape of one n-gram length table:
// {ngram_length, ngrams: [{tokens, freq}]}.
type lengthTableJSON struct {
	NGramLength int         `json:"ngram_length"`
	NGrams      []entryJSON `json:"ngrams"`
}

type entryJSON struct {
	Tokens []string `json:"tokens"`
	Freq   float64  `json:"freq"`
}

// LoadTables parses a corpus JSON document into one eval.Table per
// ngram_length entry, resolving token names against kb.
// pathCostOf supplies the PathCost table for a given n-gram length (callers
// typically build these from a separate path-cost JSON file per length).
func LoadTables(r io.Reader, kb *model.KbDef, pathCostOf func(n int) (*eval.PathCost, error)) ([]*eval.Table, error) {
	var raw []lengthTableJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, model.WrapConfigurationError("corpus", err)
	}

	nameToToken := tokenNameIndex(kb)

	tables := make([]*eval.Table, 0, len(raw))
	for _, lt := range raw {
		ngrams := make([]eval.NGram, 0, len(lt.NGrams))
		for _, e := range lt.NGrams {
			if len(e.Tokens) != lt.NGramLength {
				return nil, model.NewConfigurationError("corpus.ngrams",
					fmt.Sprintf("ngram %v has %d tokens, want %d", e.Tokens, len(e.Tokens), lt.NGramLength))
			}
			tokens := make([]model.TokenID, len(e.Tokens))
			for i, name := range e.Tokens {
				tok, ok := nameToToken[name]
				if !ok {
					return nil, model.NewConfigurationError("corpus.ngrams.tokens", "unknown token name "+name)
				}
				tokens[i] = tok
			}
			ngrams = append(ngrams, eval.NGram{Tokens: tokens, Freq: e.Freq})
		}
		cost, err := pathCostOf(lt.NGramLength)
		if err != nil {
			return nil, fmt.Errorf("loading path cost for ngram length %d: %w", lt.NGramLength, err)
		}
		tables = append(tables, &eval.Table{N: lt.NGramLength, NGrams: ngrams, Cost: cost})
	}
	return tables, nil
}

// LoadTablesFromFile is a convenience wrapper opening path before handing
// off to LoadTables.
func LoadTablesFromFile(path string, kb *model.KbDef, pathCostOf func(n int) (*eval.PathCost, error)) ([]*eval.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTables(f, kb, pathCostOf)
}

func tokenNameIndex(kb *model.KbDef) map[string]model.TokenID {
	m := make(map[string]model.TokenID, len(kb.TokenNames))
	for i, name := range kb.TokenNames {
		m[name] = model.TokenID(i)
	}
	return m
}

// Counts accumulates raw token-sequence frequencies for one or more n-gram
// lengths before a PathCost table is known, keyed by the configured token
// alphabet rather than a fixed rune set.
type Counts struct {
	lengths []int
	counts  map[int]map[string]float64
	toks    map[int]map[string][]model.TokenID
}

// NewCounts builds an empty frequency accumulator for the given n-gram
// lengths (e.g. 1, 2, 3 for unigrams/bigrams/trigrams).
func NewCounts(lengths []int) *Counts {
	c := &Counts{
		lengths: lengths,
		counts:  make(map[int]map[string]float64, len(lengths)),
		toks:    make(map[int]map[string][]model.TokenID, len(lengths)),
	}
	for _, n := range lengths {
		c.counts[n] = make(map[string]float64)
		c.toks[n] = make(map[string][]model.TokenID)
	}
	return c
}

func encodeSeq(seq []model.TokenID) string {
	b := make([]byte, 0, len(seq)*4)
	for _, t := range seq {
		b = append(b, byte(t>>24), byte(t>>16), byte(t>>8), byte(t))
	}
	return string(b)
}

// addSeq increments the count for one observed token window of the given
// length, if that length is being tracked.
func (c *Counts) addSeq(window []model.TokenID) {
	n := len(window)
	m, ok := c.counts[n]
	if !ok {
		return
	}
	key := encodeSeq(window)
	m[key]++
	if _, ok := c.toks[n][key]; !ok {
		seq := make([]model.TokenID, n)
		copy(seq, window)
		c.toks[n][key] = seq
	}
}

// AddTokenLine feeds one line of pre-tokenized text into every tracked
// n-gram length's sliding window, skipping partial windows at line ends
// rather than spanning them.
func (c *Counts) AddTokenLine(line []model.TokenID) {
	for _, n := range c.lengths {
		for i := 0; i+n <= len(line); i++ {
			c.addSeq(line[i : i+n])
		}
	}
}

// LoadTokenText reads whitespace-separated token names line by line and
// accumulates them, skipping unknown names.
func (c *Counts) LoadTokenText(r io.Reader, kb *model.KbDef) error {
	nameToToken := tokenNameIndex(kb)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := splitFields(scanner.Text())
		line := make([]model.TokenID, 0, len(fields))
		for _, f := range fields {
			if tok, ok := nameToToken[f]; ok {
				line = append(line, tok)
			}
		}
		c.AddTokenLine(line)
	}
	return scanner.Err()
}

func splitFields(s string) []string {
	var fields []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

// Tables converts the accumulated counts into one eval.Table per length,
// costed by pathCostOf.
func (c *Counts) Tables(pathCostOf func(n int) (*eval.PathCost, error)) ([]*eval.Table, error) {
	var out []*eval.Table
	for _, n := range c.lengths {
		m := c.counts[n]
		cost, err := pathCostOf(n)
		if err != nil {
			return nil, fmt.Errorf("loading path cost for ngram length %d: %w", n, err)
		}
		ngrams := make([]eval.NGram, 0, len(m))
		for key, count := range m {
			ngrams = append(ngrams, eval.NGram{Tokens: c.toks[n][key], Freq: count})
		}
		out = append(out, &eval.Table{N: n, NGrams: ngrams, Cost: cost})
	}
	return out, nil
}

// LoadPathCost parses the path-cost JSON shape [{key_seq: [key], cost}] for
// a fixed sequence length n into a flat eval.PathCost table.
func LoadPathCost(r io.Reader, kb *model.KbDef, n int) (*eval.PathCost, error) {
	var raw []struct {
		KeySeq []string `json:"key_seq"`
		Cost   float64  `json:"cost"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, model.WrapConfigurationError("pathcost", err)
	}

	nameToKey := make(map[string]model.KeyID, len(kb.KeyNames))
	for i, name := range kb.KeyNames {
		nameToKey[name] = model.KeyID(i)
	}

	table := eval.NewPathCost(kb.NumKeys, n)
	for _, e := range raw {
		if len(e.KeySeq) != n {
			return nil, model.NewConfigurationError("pathcost.key_seq",
				fmt.Sprintf("key sequence %v has length %d, want %d", e.KeySeq, len(e.KeySeq), n))
		}
		seq := make([]model.KeyID, n)
		for i, name := range e.KeySeq {
			key, ok := nameToKey[name]
			if !ok {
				return nil, model.NewConfigurationError("pathcost.key_seq", "unknown key name "+name)
			}
			seq[i] = key
		}
		table.Set(seq, e.Cost)
	}
	return table, nil
}

// LoadPathCostFromFile is a convenience wrapper opening path before handing
// off to LoadPathCost.
func LoadPathCostFromFile(path string, kb *model.KbDef, n int) (*eval.PathCost, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPathCost(f, kb, n)
}
