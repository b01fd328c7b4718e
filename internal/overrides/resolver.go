package overrides

import (
	"context"
	"fmt"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// Resolver computes the effective row definition for a grouping key,
// applying entity rules over the default tables. Resolution is a pure
// function of its inputs; the same inputs always yield the same row.
type Resolver struct {
	repo Repository
}

// NewResolver creates a resolver backed by the given rule store.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// RulesFor loads the entity's rule set once per request. Malformed
// configurations already degrade to an empty set inside the store.
func (r *Resolver) RulesFor(ctx context.Context, entityID int64) ([]Rule, error) {
	return r.repo.Rules(ctx, entityID)
}

// Resolve determines the row definition for a grouping key within a
// section. candidates is the section-scoped pool of leaf account codes.
// Precedence: entity rule, then legacy merge, then default table, then
// a label synthesized from the key — a key never resolves to nothing.
func (r *Resolver) Resolve(key string, section taxonomy.Section, candidates []string, rules []Rule) RowDefinition {
	if rule, ok := findRule(rules, key, section); ok {
		return RowDefinition{
			Label:      rule.Label,
			NotCode:    key,
			Section:    section,
			Codes:      filterByRule(rule, candidates),
			Overridden: true,
		}
	}

	// Merge member keys resolve to their anchor row so the merge holds
	// whether or not the anchor key itself has leaf accounts. An anchor
	// rule that excludes the member's codes releases the member back to
	// its own default row instead of dropping its balances.
	if anchor, ok := taxonomy.MergeAnchor(section, key); ok {
		merge, _ := taxonomy.LegacyMerge(section, anchor)
		if rule, ok := findRule(rules, anchor, section); ok {
			codes := filterByRule(rule, candidates)
			if coversKey(codes, candidates, key) {
				return RowDefinition{
					Label:      rule.Label,
					NotCode:    anchor,
					Section:    section,
					Codes:      codes,
					Overridden: true,
				}
			}
		} else {
			return RowDefinition{
				Label:      merge.Label,
				NotCode:    anchor,
				Section:    section,
				Codes:      filterByKeys(candidates, merge.Keys),
				MergedKeys: merge.Keys,
			}
		}
	}

	label, ok := taxonomy.DefaultLabel(section, key)
	if !ok {
		label = fmt.Sprintf("Group %s", key)
	}
	return RowDefinition{
		Label:   label,
		NotCode: key,
		Section: section,
		Codes:   filterByKeys(candidates, []string{key}),
	}
}

// Declared resolves a rule whose grouping key has no leaf accounts in
// the section-scoped candidate set, so an entity can pre-declare rows
// before data exists. pool is the full candidate list; it is narrowed
// by the section's digit and then by the rule. ok is false when the
// narrowed set is empty and the row must not be emitted.
func (r *Resolver) Declared(rule Rule, pool []string) (RowDefinition, bool) {
	scoped := make([]string, 0, len(pool))
	for _, code := range pool {
		if rule.Section.Owns(code) {
			scoped = append(scoped, code)
		}
	}
	var codes []string
	if len(rule.Prefixes) > 0 {
		codes = filterByPrefixes(scoped, rule.Prefixes)
	} else {
		codes = filterByKeys(scoped, []string{rule.NotCode})
	}
	if len(codes) == 0 {
		return RowDefinition{}, false
	}
	return RowDefinition{
		Label:      rule.Label,
		NotCode:    rule.NotCode,
		Section:    rule.Section,
		Codes:      codes,
		Overridden: true,
	}, true
}

// findRule returns the first rule for (key, section). Later duplicates
// are a configuration-quality concern of the owning layer, not an error.
func findRule(rules []Rule, key string, section taxonomy.Section) (Rule, bool) {
	for _, rule := range rules {
		if rule.NotCode == key && rule.Section == section {
			return rule, true
		}
	}
	return Rule{}, false
}

func filterByRule(rule Rule, candidates []string) []string {
	if len(rule.Prefixes) > 0 {
		return filterByPrefixes(candidates, rule.Prefixes)
	}
	codes := filterByKeys(candidates, []string{rule.NotCode})
	if len(codes) == 0 {
		// Compatibility fallback: a prefix-less rule whose key matches
		// nothing captures the whole candidate set so the row does not
		// silently disappear.
		return append([]string(nil), candidates...)
	}
	return codes
}

// coversKey reports whether codes contains every candidate belonging
// to the grouping key.
func coversKey(codes, candidates []string, key string) bool {
	have := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		have[code] = struct{}{}
	}
	for _, code := range candidates {
		if taxonomy.GroupingKey(code) != key {
			continue
		}
		if _, ok := have[code]; !ok {
			return false
		}
	}
	return true
}

func filterByPrefixes(candidates, prefixes []string) []string {
	var out []string
	for _, code := range candidates {
		for _, prefix := range prefixes {
			if taxonomy.MatchPrefix(prefix, code) {
				out = append(out, code)
				break
			}
		}
	}
	return out
}

func filterByKeys(candidates, keys []string) []string {
	var out []string
	for _, code := range candidates {
		key := taxonomy.GroupingKey(code)
		if key == "" {
			continue
		}
		for _, want := range keys {
			if key == want {
				out = append(out, code)
				break
			}
		}
	}
	return out
}
