package statement

import (
	"context"
	"testing"

	"github.com/opensaldo/opensaldo/internal/ledger"
)

func TestGroupedReportFiltersAndOrdering(t *testing.T) {
	led := &fakeLedger{periods: months(1, 2)}
	north := entry("600", "North Sales", 1, 0, 100)
	north.Properties[0] = "north"
	south := entry("600", "South Sales", 2, 0, 250)
	south.Properties[0] = "south"
	freight := entry("731", "Freight", 1, 60, 0)
	led.entries = append(led.entries, north, south, freight)
	svc := newTestService(led, nil)

	groups := []GroupRequest{
		{
			Name:         "Logistics",
			DisplayOrder: 2,
			Items: []ItemRequest{
				{Label: "Freight Costs", CodePrefix: "73"},
			},
		},
		{
			Name:         "Revenue by Region",
			DisplayOrder: 1,
			Items: []ItemRequest{
				{Label: "North", Properties: []string{"north"}},
				{Label: "South", Properties: []string{"south"}},
			},
		},
	}

	report, err := svc.GroupedReport(context.Background(), 1, 2024, groups)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(report.Groups))
	}
	if report.Groups[0].Name != "Revenue by Region" {
		t.Fatalf("groups must be ordered by display order, got %q first", report.Groups[0].Name)
	}

	revenue := report.Groups[0]
	requireValue(t, revenue.Items[0].Values, "1", "100")
	requireValue(t, revenue.Items[0].Values, "2", "0")
	requireValue(t, revenue.Items[1].Values, "2", "250")
	requireValue(t, revenue.Total, TotalKey, "350")

	logistics := report.Groups[1]
	// Expense-class accounts net debit minus credit.
	requireValue(t, logistics.Items[0].Values, "1", "60")
	requireValue(t, logistics.Total, TotalKey, "60")

	for _, group := range report.Groups {
		requireConsistent(t, report.Periods, group.Total)
		for _, item := range group.Items {
			requireConsistent(t, report.Periods, item.Values)
		}
	}
}

func TestGroupedReportCombinedFilters(t *testing.T) {
	led := &fakeLedger{periods: months(1)}
	tagged := entry("6001", "Export Sales", 1, 0, 500)
	tagged.Properties[0] = "export"
	tagged.Properties[1] = "wholesale"
	other := entry("6001", "Domestic Sales", 1, 0, 200)
	other.Properties[0] = "domestic"
	led.entries = append(led.entries, tagged, other)
	svc := newTestService(led, nil)

	report, err := svc.GroupedReport(context.Background(), 1, 2024, []GroupRequest{{
		Name: "Exports",
		Items: []ItemRequest{{
			Label:      "Wholesale Exports",
			CodePrefix: "600",
			Properties: []string{"export", "wholesale"},
		}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	requireValue(t, report.Groups[0].Items[0].Values, TotalKey, "500")
}

func TestGroupedReportEmptyYear(t *testing.T) {
	svc := newTestService(&fakeLedger{}, nil)
	report, err := svc.GroupedReport(context.Background(), 1, 2031, []GroupRequest{{
		Name:  "Anything",
		Items: []ItemRequest{{Label: "All"}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if report.Year != 0 || len(report.Groups) != 0 {
		t.Fatalf("expected empty report shape, got %+v", report)
	}
}

func TestItemMatchesPositionalProperties(t *testing.T) {
	e := ledger.EntrySum{AccountCode: "600"}
	e.Properties[0] = "a"
	e.Properties[2] = "c"

	if !itemMatches(e, ItemRequest{Properties: []string{"a", "", "c"}}) {
		t.Fatal("blank filter positions must be ignored")
	}
	if itemMatches(e, ItemRequest{Properties: []string{"a", "b"}}) {
		t.Fatal("mismatched position must exclude the entry")
	}
	if itemMatches(e, ItemRequest{CodePrefix: "60000"}) {
		t.Fatal("prefix longer than the code must not match")
	}
}
