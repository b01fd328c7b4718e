package overrides

import (
	"sort"

	"github.com/google/uuid"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// DefaultRuleSet materialises the static default tables as an explicit
// rule list. Reset-to-default stores this set wholesale, so an entity
// owner starts editing from the canonical classification rather than
// from an empty list.
func DefaultRuleSet() []Rule {
	sections := []taxonomy.Section{
		taxonomy.SectionNonCurrentAssets,
		taxonomy.SectionCurrentAssets,
		taxonomy.SectionLongTermSources,
		taxonomy.SectionEquity,
		taxonomy.SectionCurrentLiabilities,
		taxonomy.SectionRevenue,
		taxonomy.SectionExpense,
	}
	var rules []Rule
	for _, section := range sections {
		keys := taxonomy.DefaultKeys(section)
		sort.Strings(keys)
		for _, key := range keys {
			if anchor, ok := taxonomy.MergeAnchor(section, key); ok && anchor != key {
				continue
			}
			label, _ := taxonomy.DefaultLabel(section, key)
			var prefixes []string
			if merge, ok := taxonomy.LegacyMerge(section, key); ok {
				// Anchor rules must keep capturing every member key,
				// otherwise a reset entity would classify differently
				// from an entity with no rules at all.
				label = merge.Label
				prefixes = append([]string(nil), merge.Keys...)
			}
			rules = append(rules, Rule{
				ID:       uuid.New(),
				NotCode:  key,
				Section:  section,
				Label:    label,
				Prefixes: prefixes,
			})
		}
	}
	return rules
}
