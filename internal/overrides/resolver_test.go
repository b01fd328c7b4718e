package overrides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

func TestResolveDefaultLabel(t *testing.T) {
	r := NewResolver(nil)
	candidates := []string{"240", "241.0", "250"}

	def := r.Resolve("24", taxonomy.SectionCurrentAssets, candidates, nil)
	assert.Equal(t, "Trade Receivables", def.Label)
	assert.Equal(t, []string{"240", "241.0"}, def.Codes)
	assert.False(t, def.Overridden)
}

func TestResolveSynthesizesUnknownKey(t *testing.T) {
	r := NewResolver(nil)
	def := r.Resolve("19", taxonomy.SectionNonCurrentAssets, []string{"190", "191"}, nil)
	assert.Equal(t, "Group 19", def.Label)
	assert.Equal(t, []string{"190", "191"}, def.Codes)
}

func TestResolveOverridePrecedence(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode: "13",
		Section: taxonomy.SectionNonCurrentAssets,
		Label:   "Participations",
	}}
	def := r.Resolve("13", taxonomy.SectionNonCurrentAssets, []string{"130", "131"}, rules)
	assert.Equal(t, "Participations", def.Label)
	assert.True(t, def.Overridden)
}

func TestResolveExplicitPrefixesExcludeSiblings(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode:  "13",
		Section:  taxonomy.SectionNonCurrentAssets,
		Label:    "Selected Investments",
		Prefixes: []string{"131", "132"},
	}}
	candidates := []string{"131.0", "132", "133.0", "13"}
	def := r.Resolve("13", taxonomy.SectionNonCurrentAssets, candidates, rules)
	// "133.0" shares the grouping key but is outside the explicit
	// prefixes; "13" is shorter than any prefix and cannot match.
	assert.Equal(t, []string{"131.0", "132"}, def.Codes)
}

func TestResolvePrefixLengthAwareness(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode:  "2",
		Section:  taxonomy.SectionCurrentAssets,
		Label:    "Short Codes",
		Prefixes: []string{"22"},
	}}
	def := r.Resolve("2", taxonomy.SectionCurrentAssets, []string{"2.0", "22.1", "220"}, rules)
	assert.Equal(t, []string{"22.1", "220"}, def.Codes)
}

func TestResolveEmptyKeyFilterFallsBackToAll(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode: "27",
		Section: taxonomy.SectionCurrentAssets,
		Label:   "Declared Early",
	}}
	candidates := []string{"240", "250"}
	def := r.Resolve("27", taxonomy.SectionCurrentAssets, candidates, rules)
	assert.Equal(t, candidates, def.Codes)
}

func TestResolveLegacyMerges(t *testing.T) {
	r := NewResolver(nil)
	candidates := []string{"260", "271.0", "280", "290"}
	def := r.Resolve("26", taxonomy.SectionCurrentAssets, candidates, nil)
	assert.Equal(t, "Other Receivables", def.Label)
	assert.Equal(t, []string{"260", "271.0", "280"}, def.Codes)
	assert.Equal(t, []string{"26", "27", "28"}, def.MergedKeys)

	def = r.Resolve("40", taxonomy.SectionEquity, []string{"400", "410", "420"}, nil)
	assert.Equal(t, "Paid-in Capital", def.Label)
	assert.Equal(t, []string{"400", "410"}, def.Codes)
}

func TestResolveMemberKeyFoldsIntoAnchor(t *testing.T) {
	r := NewResolver(nil)
	// No key-26 accounts at all: the member key still resolves to the
	// anchored merge row, not a standalone default row.
	def := r.Resolve("27", taxonomy.SectionCurrentAssets, []string{"270", "281"}, nil)
	assert.Equal(t, "Other Receivables", def.Label)
	assert.Equal(t, "26", def.NotCode)
	assert.Equal(t, []string{"270", "281"}, def.Codes)
	assert.Equal(t, []string{"26", "27", "28"}, def.MergedKeys)
}

func TestResolveMemberKeyWithCoveringAnchorRule(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode:  "26",
		Section:  taxonomy.SectionCurrentAssets,
		Label:    "Other Receivables",
		Prefixes: []string{"26", "27", "28"},
	}}
	def := r.Resolve("27", taxonomy.SectionCurrentAssets, []string{"260", "270"}, rules)
	assert.Equal(t, "26", def.NotCode)
	assert.Equal(t, []string{"260", "270"}, def.Codes)
	assert.True(t, def.Overridden)
}

func TestResolveMemberKeyReleasedByNarrowAnchorRule(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode:  "26",
		Section:  taxonomy.SectionCurrentAssets,
		Label:    "Advances Only",
		Prefixes: []string{"260"},
	}}
	// The anchor rule leaves 270 out, so the member keeps its own
	// default row rather than losing the balance.
	def := r.Resolve("27", taxonomy.SectionCurrentAssets, []string{"260", "270"}, rules)
	assert.Equal(t, "Receivables from State Institutions", def.Label)
	assert.Equal(t, "27", def.NotCode)
	assert.Equal(t, []string{"270"}, def.Codes)
	assert.False(t, def.Overridden)
}

func TestResolveOverrideBeatsLegacyMerge(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode: "26",
		Section: taxonomy.SectionCurrentAssets,
		Label:   "Advances Only",
	}}
	def := r.Resolve("26", taxonomy.SectionCurrentAssets, []string{"260", "270"}, rules)
	assert.Equal(t, "Advances Only", def.Label)
	assert.Equal(t, []string{"260"}, def.Codes)
	assert.Empty(t, def.MergedKeys)
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{{
		NotCode:  "50",
		Section:  taxonomy.SectionCurrentLiabilities,
		Label:    "Suppliers",
		Prefixes: []string{"500"},
	}}
	candidates := []string{"500.1", "501", "510"}
	first := r.Resolve("50", taxonomy.SectionCurrentLiabilities, candidates, rules)
	second := r.Resolve("50", taxonomy.SectionCurrentLiabilities, candidates, rules)
	assert.Equal(t, first, second)
}

func TestResolveMalformedCodesIgnored(t *testing.T) {
	r := NewResolver(nil)
	def := r.Resolve("24", taxonomy.SectionCurrentAssets, []string{"", "240"}, nil)
	assert.Equal(t, []string{"240"}, def.Codes)
}

func TestDeclaredRowScopedBySection(t *testing.T) {
	r := NewResolver(nil)
	rule := Rule{
		NotCode: "25",
		Section: taxonomy.SectionCurrentAssets,
		Label:   "Deposits",
	}
	pool := []string{"250", "251.2", "350", "600"}
	def, ok := r.Declared(rule, pool)
	require.True(t, ok)
	assert.Equal(t, []string{"250", "251.2"}, def.Codes)

	// Nothing in the pool falls inside the rule: row is skipped.
	_, ok = r.Declared(Rule{NotCode: "29", Section: taxonomy.SectionCurrentAssets, Label: "Cash"}, []string{"350"})
	assert.False(t, ok)
}

func TestDeclaredRowWithPrefixes(t *testing.T) {
	r := NewResolver(nil)
	rule := Rule{
		NotCode:  "51",
		Section:  taxonomy.SectionCurrentLiabilities,
		Label:    "Bank Loans",
		Prefixes: []string{"512"},
	}
	def, ok := r.Declared(rule, []string{"510", "512.0", "5123"})
	require.True(t, ok)
	assert.Equal(t, []string{"512.0", "5123"}, def.Codes)
}

func TestFirstRuleWins(t *testing.T) {
	r := NewResolver(nil)
	rules := []Rule{
		{NotCode: "24", Section: taxonomy.SectionCurrentAssets, Label: "First"},
		{NotCode: "24", Section: taxonomy.SectionCurrentAssets, Label: "Second"},
	}
	def := r.Resolve("24", taxonomy.SectionCurrentAssets, []string{"240"}, rules)
	assert.Equal(t, "First", def.Label)
}

func TestDefaultRuleSetCoversSections(t *testing.T) {
	rules := DefaultRuleSet()
	require.NotEmpty(t, rules)
	seen := make(map[string]bool)
	for _, rule := range rules {
		key := string(rule.Section) + "|" + rule.NotCode
		require.False(t, seen[key], "duplicate default rule %s", key)
		seen[key] = true
		assert.NotEmpty(t, rule.Label)
	}
	// Merge members collapse into their anchor rule.
	assert.False(t, seen[string(taxonomy.SectionCurrentAssets)+"|27"])
	assert.False(t, seen[string(taxonomy.SectionEquity)+"|41"])
	assert.True(t, seen[string(taxonomy.SectionCurrentAssets)+"|26"])
}

func TestDefaultRuleSetAnchorPrefixesCoverMembers(t *testing.T) {
	for _, rule := range DefaultRuleSet() {
		merge, ok := taxonomy.LegacyMerge(rule.Section, rule.NotCode)
		if !ok {
			assert.Empty(t, rule.Prefixes, "non-anchor rule %s/%s", rule.Section, rule.NotCode)
			continue
		}
		// Anchor rules spell out every member key so a reset entity
		// classifies exactly like one with no rules.
		assert.Equal(t, merge.Keys, rule.Prefixes)
		assert.Equal(t, merge.Label, rule.Label)
	}
}
