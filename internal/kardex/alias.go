package kardex

import "strings"

// AliasResolver maps free-text product identification to one of the known
// product aliases. It never guesses: when no table entry and no raw-material
// heuristic matches, the item is simply not part of the consolidation.
type AliasResolver struct {
	exact      map[string]ProductAlias
	heuristics [][]string
}

func NewAliasResolver(cfg Config) *AliasResolver {
	exact := make(map[string]ProductAlias, len(cfg.RawAliases)+len(cfg.FinishedAliases))
	for _, name := range cfg.RawAliases {
		exact[normalizeText(name)] = AliasGreenCoffee
	}
	for name, alias := range cfg.FinishedAliases {
		exact[normalizeText(name)] = alias
	}
	heuristics := make([][]string, 0, len(cfg.RawHeuristics))
	for _, tokens := range cfg.RawHeuristics {
		set := make([]string, 0, len(tokens))
		for _, t := range tokens {
			set = append(set, normalizeText(t))
		}
		heuristics = append(heuristics, set)
	}
	return &AliasResolver{exact: exact, heuristics: heuristics}
}

// Resolve tries each candidate in priority order (mapped product name first,
// then description, then raw code) and returns the first alias found, or ""
// when the item is not a tracked product.
func (r *AliasResolver) Resolve(candidates ...string) ProductAlias {
	for _, c := range candidates {
		key := normalizeText(c)
		if key == "" {
			continue
		}
		if alias, found := r.exact[key]; found {
			return alias
		}
	}
	// Exact table missed everywhere; a raw-material name variant may still
	// be recognizable by its tokens.
	for _, c := range candidates {
		key := normalizeText(c)
		if key == "" {
			continue
		}
		for _, tokens := range r.heuristics {
			if containsAll(key, tokens) {
				return AliasGreenCoffee
			}
		}
	}
	return ""
}

func containsAll(s string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}
