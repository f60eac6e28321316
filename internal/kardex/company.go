package kardex

import "strings"

// ResolveCompanies determines the exact set of legal entities that
// participate in the consolidation, in deterministic order.
//
// Selection precedence: explicit IDs, then explicit CNPJs, then the
// name-token matchers. Whatever the mechanism, the result must be complete:
// an ID or CNPJ with no matching company, or a matcher with no match, is a
// ConfigError. Partial consolidation would silently stop excluding
// intercompany transfers and double-count them, so this fails closed.
func ResolveCompanies(cfg Config, companies []Company) ([]Company, error) {
	if len(cfg.CompanyIDs) > 0 {
		return resolveByID(cfg.CompanyIDs, companies)
	}
	if len(cfg.CompanyCNPJs) > 0 {
		return resolveByCNPJ(cfg.CompanyCNPJs, companies)
	}
	if len(cfg.CompanyMatchers) > 0 {
		return resolveByMatchers(cfg.CompanyMatchers, companies)
	}
	return nil, configErrorf("no company selection configured: set ids, cnpjs or name matchers")
}

func resolveByID(ids []int, companies []Company) ([]Company, error) {
	byID := make(map[int]Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	out := make([]Company, 0, len(ids))
	for _, id := range ids {
		c, found := byID[id]
		if !found {
			return nil, configErrorf("configured company id %d does not exist", id)
		}
		out = append(out, c)
	}
	return out, nil
}

func resolveByCNPJ(cnpjs []string, companies []Company) ([]Company, error) {
	byCNPJ := make(map[string]Company, len(companies))
	for _, c := range companies {
		byCNPJ[onlyDigits(c.CNPJ)] = c
	}
	out := make([]Company, 0, len(cnpjs))
	for _, cnpj := range cnpjs {
		c, found := byCNPJ[onlyDigits(cnpj)]
		if !found {
			return nil, configErrorf("configured company cnpj %s does not exist", cnpj)
		}
		out = append(out, c)
	}
	return out, nil
}

// resolveByMatchers requires every matcher to find at least one company;
// a matcher hitting nothing means a required participant is missing from
// the registry. Output follows matcher order, then registry order within
// one matcher, with duplicates (a company hit by two matchers) dropped.
func resolveByMatchers(matchers []CompanyMatcher, companies []Company) ([]Company, error) {
	var out []Company
	seen := make(map[int]bool)
	for _, m := range matchers {
		matched := false
		for _, c := range companies {
			if matchesTokens(c.Name, m.Tokens) {
				matched = true
				if !seen[c.ID] {
					seen[c.ID] = true
					out = append(out, c)
				}
			}
		}
		if !matched {
			return nil, configErrorf("no company matches %q (tokens %v); consolidation would be incomplete", m.Label, m.Tokens)
		}
	}
	return out, nil
}

func matchesTokens(name string, tokens []string) bool {
	norm := normalizeText(name)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !strings.Contains(norm, normalizeText(t)) {
			return false
		}
	}
	return true
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
