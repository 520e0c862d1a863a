package csp

import (
	"math/rand"
	"testing"
)

// notEqualDomain builds a graph-coloring-style CSP: numKeys keys, each
// drawn from [0, numValues), every pair of keys constrained to differ.
func notEqualDomain(numKeys, numValues int) *Domain {
	d := NewDomain(numKeys, numValues)
	for origin := 0; origin < numKeys; origin++ {
		for target := 0; target < numKeys; target++ {
			if origin == target {
				continue
			}
			m := make(map[int]Restriction, numValues)
			for v := 0; v < numValues; v++ {
				m[v] = Restriction{Kind: Not, Values: []int{v}}
			}
			d.Constraints[origin][target] = m
		}
	}
	return d
}

func TestGeneratorFindsProperColoring(t *testing.T) {
	tests := []struct {
		name      string
		numKeys   int
		numValues int
	}{
		{"3 keys 3 colors", 3, 3},
		{"4 keys 4 colors", 4, 4},
		{"5 keys 6 colors", 5, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := notEqualDomain(tc.numKeys, tc.numValues)
			w := NewDomainWalker(d)
			g := NewGenerator(w, LowestIndexPolicy{})
			mapping, err := g.Generate(rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			seen := make(map[int]bool)
			for _, v := range mapping {
				if seen[v] {
					t.Fatalf("value %d assigned to more than one key in %v", v, mapping)
				}
				seen[v] = true
			}
		})
	}
}

func TestGeneratorInfeasibleWhenTooFewValues(t *testing.T) {
	d := notEqualDomain(3, 2)
	w := NewDomainWalker(d)
	g := NewGenerator(w, LowestIndexPolicy{})
	_, err := g.Generate(rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected infeasibility with 3 mutually distinct keys and only 2 values")
	}
}

func TestGeneratorDeterministicGivenSeed(t *testing.T) {
	d := notEqualDomain(5, 5)
	run := func(seed int64) []int {
		w := NewDomainWalker(d)
		g := NewGenerator(w, LowestIndexPolicy{})
		mapping, err := g.Generate(rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return mapping
	}
	a := run(42)
	b := run(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different layouts: %v vs %v", a, b)
		}
	}
}

func TestMostConstrainedPolicyPicksSmallestRange(t *testing.T) {
	d := NewDomain(3, 3)
	d.KeyRestrictions[1] = &Restriction{Kind: Only, Values: []int{0}}
	w := NewDomainWalker(d)
	policy := MostConstrainedPolicy{}
	key := policy.NextKey(w, []int{0, 1, 2})
	if key != 1 {
		t.Fatalf("expected key 1 (only 1 candidate) to be picked, got %d", key)
	}
}
