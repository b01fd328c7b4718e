package statement

import (
	"context"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// BalanceSheet assembles the balance sheet for an entity and year:
// per subsection a category header, its resolved rows, and a subtotal,
// then a grand total per side (assets, liabilities and equity).
func (s *Service) BalanceSheet(ctx context.Context, entityID int64, year int) (BalanceSheet, error) {
	input, err := s.loadInput(ctx, entityID, year)
	if err != nil {
		return BalanceSheet{}, err
	}
	report := BalanceSheet{
		Year:          input.year,
		Periods:       input.periods,
		AssetRows:     []ReportRow{},
		LiabilityRows: []ReportRow{},
	}
	if len(input.periods) == 0 {
		return report, nil
	}

	codes := distinctCodes(input.entries)
	assetTotal := NewPeriodValueMap(input.periods)
	liabilityTotal := NewPeriodValueMap(input.periods)

	for _, sub := range taxonomy.BalanceSheetSubsections() {
		rows, subtotal := s.buildSubsection(sub, codes, input)
		if sub.Assets {
			report.AssetRows = append(report.AssetRows, rows...)
			assetTotal.Add(subtotal)
		} else {
			report.LiabilityRows = append(report.LiabilityRows, rows...)
			liabilityTotal.Add(subtotal)
		}
	}

	report.AssetRows = append(report.AssetRows, ReportRow{
		Kind:   RowKindTotal,
		Label:  "Total Assets",
		Values: assetTotal,
	})
	report.LiabilityRows = append(report.LiabilityRows, ReportRow{
		Kind:   RowKindTotal,
		Label:  "Total Liabilities and Equity",
		Values: liabilityTotal,
	})
	return report, nil
}

// buildSubsection emits the header, resolved rows, declared override
// rows without data, and the subtotal for one subsection.
func (s *Service) buildSubsection(sub taxonomy.Subsection, codes []string, input reportInput) ([]ReportRow, PeriodValueMap) {
	pool := sectionCodes(codes, sub.Section)
	subtotal := NewPeriodValueMap(input.periods)
	rows := []ReportRow{{
		Kind:   RowKindHeader,
		Label:  sub.Label,
		Values: NewPeriodValueMap(input.periods),
	}}

	emitted := make(map[string]bool)
	consumed := make(map[string]bool)
	for _, key := range groupingKeys(pool) {
		if consumed[key] {
			continue
		}
		def := s.resolver.Resolve(key, sub.Section, pool, input.rules)
		// Merge member keys resolve to their anchor; a row already
		// emitted under that NOT code must not repeat.
		if emitted[def.NotCode] {
			continue
		}
		for _, member := range def.MergedKeys {
			consumed[member] = true
		}
		emitted[def.NotCode] = true
		values := aggregate(input.entries, def.Codes, input.periods, SignDebitMinusCredit)
		rows = append(rows, ReportRow{
			Kind:    RowKindLine,
			Label:   def.Label,
			NotCode: def.NotCode,
			Values:  values,
		})
		subtotal.Add(values)
	}

	// Declared rows: override rules whose grouping key has no leaf
	// accounts still surface when their filter captures codes from the
	// full pool, letting an entity pre-declare rows before data exists.
	for _, rule := range input.rules {
		if rule.Section != sub.Section || emitted[rule.NotCode] || consumed[rule.NotCode] {
			continue
		}
		def, ok := s.resolver.Declared(rule, codes)
		if !ok {
			continue
		}
		emitted[rule.NotCode] = true
		values := aggregate(input.entries, def.Codes, input.periods, SignDebitMinusCredit)
		rows = append(rows, ReportRow{
			Kind:    RowKindLine,
			Label:   def.Label,
			NotCode: def.NotCode,
			Values:  values,
		})
		subtotal.Add(values)
	}

	rows = append(rows, ReportRow{
		Kind:   RowKindSubtotal,
		Label:  sub.Label + " Total",
		Values: subtotal,
	})
	return rows, subtotal
}
