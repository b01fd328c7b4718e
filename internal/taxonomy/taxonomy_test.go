package taxonomy

import "testing"

func TestGroupingKey(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"220", "22"},
		{"22.0.0", "22"},
		{"2", "2"},
		{"2.10", "2"},
		{"", ""},
		{"41000", "41"},
	}
	for _, tc := range cases {
		if got := GroupingKey(tc.code); got != tc.want {
			t.Fatalf("GroupingKey(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestSectionForBalanceSheet(t *testing.T) {
	section, ok := SectionFor("220", ContextBalanceSheet)
	if !ok || section != SectionCurrentAssets {
		t.Fatalf("expected current assets, got %q ok=%v", section, ok)
	}
	if _, ok := SectionFor("600", ContextBalanceSheet); ok {
		t.Fatal("income-statement digit must not resolve in balance-sheet context")
	}
	if _, ok := SectionFor("", ContextBalanceSheet); ok {
		t.Fatal("empty code must not resolve")
	}
}

func TestSectionForIncomeStatement(t *testing.T) {
	if section, ok := SectionFor("601", ContextIncomeStatement); !ok || section != SectionRevenue {
		t.Fatalf("expected revenue, got %q ok=%v", section, ok)
	}
	if section, ok := SectionFor("720.1", ContextIncomeStatement); !ok || section != SectionExpense {
		t.Fatalf("expected expense, got %q ok=%v", section, ok)
	}
	// Undefined digits pass through unmapped rather than failing.
	if _, ok := SectionFor("890", ContextIncomeStatement); ok {
		t.Fatal("digit 8 must stay unmapped in income-statement context")
	}
}

func TestDefaultLabelFallback(t *testing.T) {
	if label, ok := DefaultLabel(SectionCurrentAssets, "24"); !ok || label != "Trade Receivables" {
		t.Fatalf("unexpected default label %q ok=%v", label, ok)
	}
	if _, ok := DefaultLabel(SectionCurrentAssets, "99"); ok {
		t.Fatal("unknown key must not have a default label")
	}
}

func TestLegacyMerges(t *testing.T) {
	merge, ok := LegacyMerge(SectionCurrentAssets, "26")
	if !ok || merge.Label != "Other Receivables" {
		t.Fatalf("expected Other Receivables merge, got %+v ok=%v", merge, ok)
	}
	if len(merge.Keys) != 3 {
		t.Fatalf("expected keys 26-28, got %v", merge.Keys)
	}
	merge, ok = LegacyMerge(SectionEquity, "40")
	if !ok || merge.Label != "Paid-in Capital" {
		t.Fatalf("expected Paid-in Capital merge, got %+v ok=%v", merge, ok)
	}
	if _, ok := LegacyMerge(SectionEquity, "42"); ok {
		t.Fatal("key 42 is not a merge anchor")
	}

	anchor, ok := MergeAnchor(SectionCurrentAssets, "28")
	if !ok || anchor != "26" {
		t.Fatalf("expected anchor 26 for key 28, got %q ok=%v", anchor, ok)
	}
	if _, ok := MergeAnchor(SectionCurrentAssets, "29"); ok {
		t.Fatal("key 29 does not belong to a merge")
	}
}
