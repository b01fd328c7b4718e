package statement

import (
	"context"
	"strings"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// cascadeLine describes one line of the fixed income-statement order.
// Source lines aggregate ledger entries by code prefix; derived lines
// combine the magnitudes of earlier lines and never re-scan entries,
// which keeps the cascade internally consistent even when
// classification changes.
type cascadeLine struct {
	Label    string
	Prefixes []string
	Sign     Sign
	Negative bool
	Terms    []cascadeTerm
	Kind     RowKind
}

type cascadeTerm struct {
	Index  int
	Weight int64
}

// incomeCascade is the canonical 16-line income statement. Indices in
// Terms refer to positions in this slice.
var incomeCascade = []cascadeLine{
	{Label: "Gross Sales", Prefixes: []string{"60", "61"}, Sign: SignCreditMinusDebit, Kind: RowKindLine},
	{Label: "Sales Deductions", Prefixes: []string{"62"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Net Sales", Terms: []cascadeTerm{{0, 1}, {1, -1}}, Kind: RowKindSubtotal},
	{Label: "Cost of Sales", Prefixes: []string{"70"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Gross Profit", Terms: []cascadeTerm{{2, 1}, {3, -1}}, Kind: RowKindSubtotal},
	{Label: "Operating Expenses", Prefixes: []string{"71", "72", "73"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Operating Profit", Terms: []cascadeTerm{{4, 1}, {5, -1}}, Kind: RowKindSubtotal},
	{Label: "Other Operating Income", Prefixes: []string{"65"}, Sign: SignCreditMinusDebit, Kind: RowKindLine},
	{Label: "Other Operating Expense", Prefixes: []string{"75"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Financing Expense", Prefixes: []string{"76"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Ordinary Profit", Terms: []cascadeTerm{{6, 1}, {7, 1}, {8, -1}, {9, -1}}, Kind: RowKindSubtotal},
	{Label: "Extraordinary Income", Prefixes: []string{"68"}, Sign: SignCreditMinusDebit, Kind: RowKindLine},
	{Label: "Extraordinary Expense", Prefixes: []string{"78"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Period Profit", Terms: []cascadeTerm{{10, 1}, {11, 1}, {12, -1}}, Kind: RowKindSubtotal},
	{Label: "Tax Provision", Prefixes: []string{"79"}, Sign: SignDebitMinusCredit, Negative: true, Kind: RowKindLine},
	{Label: "Net Profit", Terms: []cascadeTerm{{13, 1}, {14, -1}}, Kind: RowKindTotal},
}

// IncomeStatement assembles the fixed cascade for an entity and year.
func (s *Service) IncomeStatement(ctx context.Context, entityID int64, year int) (IncomeStatement, error) {
	input, err := s.loadInput(ctx, entityID, year)
	if err != nil {
		return IncomeStatement{}, err
	}
	report := IncomeStatement{
		Year:    input.year,
		Periods: input.periods,
		Rows:    []ReportRow{},
	}
	if len(input.periods) == 0 {
		return report, nil
	}

	codes := distinctCodes(input.entries)

	// magnitudes keeps every line's pre-presentation values so derived
	// lines are computed from one canonical source.
	magnitudes := make([]PeriodValueMap, len(incomeCascade))
	for i, line := range incomeCascade {
		if line.Prefixes != nil {
			lineCodes := filterCodesByPrefixes(codes, line.Prefixes)
			magnitudes[i] = aggregate(input.entries, lineCodes, input.periods, line.Sign)
			continue
		}
		derived := NewPeriodValueMap(input.periods)
		for _, term := range line.Terms {
			derived.AddWeighted(magnitudes[term.Index], term.Weight)
		}
		magnitudes[i] = derived
	}

	for i, line := range incomeCascade {
		values := magnitudes[i]
		if line.Negative {
			// Deductions and expense lines present as negative
			// contributors regardless of their underlying sign.
			values = values.Negate()
		}
		row := ReportRow{Kind: line.Kind, Label: line.Label, Values: values}
		if len(line.Prefixes) > 0 {
			// Multi-prefix lines join their keys so drill-down can
			// recover the exact constituent set.
			row.NotCode = strings.Join(line.Prefixes, "+")
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func filterCodesByPrefixes(codes, prefixes []string) []string {
	var out []string
	for _, code := range codes {
		for _, prefix := range prefixes {
			if taxonomy.MatchPrefix(prefix, code) {
				out = append(out, code)
				break
			}
		}
	}
	return out
}
