package statement

import (
	"context"
	"sort"

	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// GroupRequest is one caller-supplied group of an ad-hoc report.
type GroupRequest struct {
	Name         string        `json:"name" validate:"required,max=120"`
	DisplayOrder int           `json:"displayOrder"`
	Items        []ItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// ItemRequest is one named line of a group. Filters are explicit: an
// optional account-code prefix and up to five positional property
// tags, matched exactly when non-empty. No taxonomy lookup applies.
type ItemRequest struct {
	Label      string   `json:"label" validate:"required,max=160"`
	CodePrefix string   `json:"codePrefix,omitempty" validate:"omitempty,min=1,max=6"`
	Properties []string `json:"properties,omitempty" validate:"omitempty,max=5,dive,max=60"`
}

// GroupedReport assembles the ad-hoc report: every item aggregated
// independently, summed into a group total, groups ordered by their
// display order.
func (s *Service) GroupedReport(ctx context.Context, entityID int64, year int, groups []GroupRequest) (GroupedReport, error) {
	input, err := s.loadInput(ctx, entityID, year)
	if err != nil {
		return GroupedReport{}, err
	}
	report := GroupedReport{
		Year:    input.year,
		Periods: input.periods,
		Groups:  []ReportGroup{},
	}
	if len(input.periods) == 0 {
		return report, nil
	}

	for _, group := range groups {
		built := ReportGroup{
			Name:         group.Name,
			DisplayOrder: group.DisplayOrder,
			Items:        []ReportRow{},
			Total:        NewPeriodValueMap(input.periods),
		}
		for _, item := range group.Items {
			values := aggregateItem(input.entries, item, input.periods)
			built.Items = append(built.Items, ReportRow{
				Kind:   RowKindLine,
				Label:  item.Label,
				Values: values,
			})
			built.Total.Add(values)
		}
		report.Groups = append(report.Groups, built)
	}

	sort.SliceStable(report.Groups, func(i, j int) bool {
		return report.Groups[i].DisplayOrder < report.Groups[j].DisplayOrder
	})
	return report, nil
}

// aggregateItem sums the entries matching the item's filters. The sign
// convention follows each account's own leading digit, so revenue and
// expense accounts can share one item.
func aggregateItem(entries []ledger.EntrySum, item ItemRequest, periods []ledger.Period) PeriodValueMap {
	values := NewPeriodValueMap(periods)
	for _, entry := range entries {
		if !itemMatches(entry, item) {
			continue
		}
		key := ledger.Period{Month: entry.Month}.Key()
		if _, ok := values[key]; !ok {
			continue
		}
		net := entry.Debit.Sub(entry.Credit)
		if signForCode(entry.AccountCode) == SignCreditMinusDebit {
			net = entry.Credit.Sub(entry.Debit)
		}
		values[key] = values[key].Add(net)
		values[TotalKey] = values[TotalKey].Add(net)
	}
	return values
}

func itemMatches(entry ledger.EntrySum, item ItemRequest) bool {
	if item.CodePrefix != "" && !taxonomy.MatchPrefix(item.CodePrefix, entry.AccountCode) {
		return false
	}
	for i, want := range item.Properties {
		if want == "" {
			continue
		}
		if i >= ledger.PropertyCount || entry.Properties[i] != want {
			return false
		}
	}
	return true
}
