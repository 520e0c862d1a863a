package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rbscholtus/layoutgen/internal/csp"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// domainJSON is the wire shape of a generic CSP domain: {keys, values,
// restrictions: [{key, kind, values}], constraints: [{origin, target, kind,
// values, for}]}. This lets tooling and tests drive csp.DomainWalker directly
// without going through a full keyboard locks/frees configuration.
type domainJSON struct {
	Keys         []string `json:"keys"`
	Values       []string `json:"values"`
	Restrictions []struct {
		Key         string   `json:"key"`
		Kind        string   `json:"kind"` // "not" or "only"
		Values      []string `json:"values"`
	} `json:"restrictions"`
	Constraints []struct {
		Origin string   `json:"origin"`
		Target string   `json:"target"`
		Kind   string   `json:"kind"`
		Values []string `json:"values"` // values the origin value disallows/allows on target
		For    string   `json:"for"`    // the origin value this constraint applies to
	} `json:"constraints"`
}

// LoadDomain parses the generic domain JSON shape into a csp.Domain.
func LoadDomain(r io.Reader) (*csp.Domain, error) {
	var raw domainJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, model.WrapConfigurationError("domain", err)
	}

	keyIdx := make(map[string]int, len(raw.Keys))
	for i, n := range raw.Keys {
		keyIdx[n] = i
	}
	valIdx := make(map[string]int, len(raw.Values))
	for i, n := range raw.Values {
		valIdx[n] = i
	}

	d := csp.NewDomain(len(raw.Keys), len(raw.Values))
	d.KeyNames = raw.Keys
	d.ValueNames = raw.Values

	for _, r := range raw.Restrictions {
		key, ok := keyIdx[r.Key]
		if !ok {
			return nil, model.NewConfigurationError("domain.restrictions.key", "unknown key name "+r.Key)
		}
		values, err := resolveValues(r.Values, valIdx, "domain.restrictions.values")
		if err != nil {
			return nil, err
		}
		kind, err := parseRestrictionKind(r.Kind)
		if err != nil {
			return nil, err
		}
		d.KeyRestrictions[key] = &csp.Restriction{Kind: kind, Values: values}
	}

	for _, c := range raw.Constraints {
		origin, ok := keyIdx[c.Origin]
		if !ok {
			return nil, model.NewConfigurationError("domain.constraints.origin", "unknown key name "+c.Origin)
		}
		target, ok := keyIdx[c.Target]
		if !ok {
			return nil, model.NewConfigurationError("domain.constraints.target", "unknown key name "+c.Target)
		}
		forVal, ok := valIdx[c.For]
		if !ok {
			return nil, model.NewConfigurationError("domain.constraints.for", "unknown value name "+c.For)
		}
		values, err := resolveValues(c.Values, valIdx, "domain.constraints.values")
		if err != nil {
			return nil, err
		}
		kind, err := parseRestrictionKind(c.Kind)
		if err != nil {
			return nil, err
		}
		if d.Constraints[origin][target] == nil {
			d.Constraints[origin][target] = make(map[int]csp.Restriction)
		}
		d.Constraints[origin][target][forVal] = csp.Restriction{Kind: kind, Values: values}
	}

	return d, nil
}

// LoadDomainFromFile is a convenience wrapper opening path before handing
// off to LoadDomain.
func LoadDomainFromFile(path string) (*csp.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDomain(f)
}

func resolveValues(names []string, idx map[string]int, field string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		v, ok := idx[n]
		if !ok {
			return nil, model.NewConfigurationError(field, "unknown value name "+n)
		}
		out[i] = v
	}
	return out, nil
}

func parseRestrictionKind(s string) (csp.RestrictionKind, error) {
	switch s {
	case "not":
		return csp.Not, nil
	case "only":
		return csp.Only, nil
	default:
		return 0, model.NewConfigurationError("restriction.kind", "restriction kind must be \"not\" or \"only\", got "+s)
	}
}

// DomainFromKbDef builds a csp.Domain directly from a keyboard configuration:
// keys are kb's keys, values are kb's groups, and a group's constraint
// against a key is derived from whether that group's AllowedKeys/AllowedLocs
// include the key. Every pair of distinct keys also carries an all-different
// binary constraint over group values, so the walker rejects placing the
// same group on two keys. This bridges a lock/free keyboard configuration
// onto the same DomainWalker/Generator used for generic CSP tooling.
func DomainFromKbDef(kb *model.KbDef) *csp.Domain {
	d := csp.NewDomain(kb.NumKeys, kb.NumGroups())
	d.KeyNames = kb.KeyNames
	d.ValueNames = make([]string, kb.NumGroups())
	for gid := range kb.Groups {
		d.ValueNames[gid] = groupLabel(kb, model.GroupID(gid))
	}

	// allowedKeys[g] is the set of keys group g may occupy.
	allowedKeys := make([]map[int]bool, kb.NumGroups())
	for gid, g := range kb.Groups {
		allowed := make(map[int]bool)
		if g.Kind == model.GroupLockKind {
			for _, k := range kb.Locks[g.Lock].AllowedKeys {
				allowed[int(k)] = true
			}
		} else {
			for _, loc := range kb.Frees[g.Free].AllowedLocs {
				allowed[int(kb.Key(loc))] = true
			}
		}
		allowedKeys[gid] = allowed
	}

	// KeyRestrictions is indexed by key and restricts the values (groups)
	// that key may take; invert the per-group allowed-key sets accordingly.
	for key := 0; key < kb.NumKeys; key++ {
		var disallowed []int
		for gid := 0; gid < kb.NumGroups(); gid++ {
			if !allowedKeys[gid][key] {
				disallowed = append(disallowed, gid)
			}
		}
		if len(disallowed) > 0 {
			d.KeyRestrictions[key] = &csp.Restriction{Kind: csp.Not, Values: disallowed}
		}
	}

	// Every group may occupy at most one key: for each ordered pair of
	// distinct keys, placing group g on the origin forbids g on the target.
	notSelf := make([]csp.Restriction, kb.NumGroups())
	for gid := range notSelf {
		notSelf[gid] = csp.Restriction{Kind: csp.Not, Values: []int{gid}}
	}
	for origin := 0; origin < kb.NumKeys; origin++ {
		for target := 0; target < kb.NumKeys; target++ {
			if origin == target {
				continue
			}
			constraint := make(map[int]csp.Restriction, kb.NumGroups())
			for gid := 0; gid < kb.NumGroups(); gid++ {
				constraint[gid] = notSelf[gid]
			}
			d.Constraints[origin][target] = constraint
		}
	}
	return d
}

func groupLabel(kb *model.KbDef, g model.GroupID) string {
	group := kb.Groups[g]
	if group.Kind == model.GroupLockKind {
		members := kb.Locks[group.Lock].Members()
		if len(members) > 0 {
			return "lock:" + kb.TokenNames[members[0].Token]
		}
		return "lock"
	}
	return "free:" + kb.TokenNames[kb.Frees[group.Free].Token]
}
