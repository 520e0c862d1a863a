package config

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rbscholtus/layoutgen/internal/csp"
	"github.com/rbscholtus/layoutgen/internal/model"
)

const sampleKbDefJSON = `{
  "keys": ["k0", "k1", "k2"],
  "layers": ["base"],
  "tokens": ["a", "b", "c"],
  "locks": [
    {"elems": ["a"], "allowed_keys": ["k0", "k1"]}
  ],
  "frees": [
    {"token": "b", "allowed_locs": ["k0@base", "k1@base", "k2@base"]},
    {"token": "c", "allowed_locs": ["k2@base"]}
  ]
}`

func TestLoadKbDefParsesValidConfig(t *testing.T) {
	kb, err := LoadKbDef(strings.NewReader(sampleKbDefJSON))
	if err != nil {
		t.Fatalf("LoadKbDef: %v", err)
	}
	if kb.NumKeys != 3 || kb.NumLayers != 1 || kb.NumTokens != 3 {
		t.Fatalf("unexpected dimensions: %+v", kb)
	}
	if kb.NumGroups() != 3 {
		t.Fatalf("expected 3 groups (1 lock + 2 free), got %d", kb.NumGroups())
	}
}

func TestLoadKbDefRejectsUnknownTokenName(t *testing.T) {
	bad := strings.Replace(sampleKbDefJSON, `"elems": ["a"]`, `"elems": ["zzz"]`, 1)
	if _, err := LoadKbDef(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for unknown token name")
	}
}

func TestDomainFromKbDefRestrictsKeysNotAllowedForGroup(t *testing.T) {
	kb, err := LoadKbDef(strings.NewReader(sampleKbDefJSON))
	if err != nil {
		t.Fatalf("LoadKbDef: %v", err)
	}
	d := DomainFromKbDef(kb)

	// token "c"'s free group is only allowed at k2; k0 and k1 should
	// disallow that group's value.
	cGroup := int(kb.FreeGroup[1])
	for key := 0; key < 2; key++ {
		r := d.KeyRestrictions[key]
		if r == nil {
			t.Fatalf("key %d: expected a restriction", key)
		}
		found := false
		for _, v := range r.Values {
			if v == cGroup {
				found = true
			}
		}
		if !found {
			t.Fatalf("key %d: expected group %d disallowed, restriction=%+v", key, cGroup, r)
		}
	}
}

func TestDomainFromKbDefForbidsTheSameGroupOnTwoKeys(t *testing.T) {
	kb, err := LoadKbDef(strings.NewReader(sampleKbDefJSON))
	if err != nil {
		t.Fatalf("LoadKbDef: %v", err)
	}
	d := DomainFromKbDef(kb)
	walker := csp.NewDomainWalker(d)
	gen := csp.NewGenerator(walker, csp.MostConstrainedPolicy{})

	mapping, err := gen.Generate(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[int]bool)
	for _, gid := range mapping {
		if seen[gid] {
			t.Fatalf("group %d assigned to more than one key in mapping %v", gid, mapping)
		}
		seen[gid] = true
	}
	if len(seen) != kb.NumGroups() {
		t.Fatalf("expected all %d groups placed, got %d", kb.NumGroups(), len(seen))
	}
}

const overCommittedKbDefJSON = `{
  "keys": ["k0"],
  "layers": ["base"],
  "tokens": ["a", "b"],
  "locks": [],
  "frees": [
    {"token": "a", "allowed_locs": ["k0@base"]},
    {"token": "b", "allowed_locs": ["k0@base"]}
  ]
}`

func TestLayoutFromAssignmentRejectsUnplacedGroups(t *testing.T) {
	kb, err := LoadKbDef(strings.NewReader(overCommittedKbDefJSON))
	if err != nil {
		t.Fatalf("LoadKbDef: %v", err)
	}

	d := DomainFromKbDef(kb)
	walker := csp.NewDomainWalker(d)
	gen := csp.NewGenerator(walker, csp.MostConstrainedPolicy{})

	mapping, err := gen.Generate(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = LayoutFromAssignment(kb, mapping)
	if err == nil {
		t.Fatal("expected an InfeasibleLayout error for a keyboard with more groups than keys")
	}
	if _, ok := err.(*model.InfeasibleLayout); !ok {
		t.Fatalf("expected *model.InfeasibleLayout, got %T: %v", err, err)
	}
}
