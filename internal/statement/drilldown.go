package statement

import (
	"context"
	"sort"
	"strings"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// RowDetail lists the leaf accounts feeding the summary row of a
// grouping key, each with its own per-period values under the same
// sign convention as the parent row. Used to audit how a row's number
// came to be.
func (s *Service) RowDetail(ctx context.Context, entityID int64, notCode string, year int) (RowDetail, error) {
	input, err := s.loadInput(ctx, entityID, year)
	if err != nil {
		return RowDetail{}, err
	}
	detail := RowDetail{
		NotCode:  notCode,
		Year:     input.year,
		Periods:  input.periods,
		Accounts: []AccountDetail{},
	}
	if len(input.periods) == 0 || notCode == "" {
		return detail, nil
	}

	codes := distinctCodes(input.entries)
	rowCodes := s.resolveDetailCodes(notCode, codes, input)

	names := make(map[string]string, len(input.entries))
	for _, entry := range input.entries {
		if names[entry.AccountCode] == "" {
			names[entry.AccountCode] = entry.AccountName
		}
	}

	sign := signForCode(notCode)
	for _, code := range rowCodes {
		values := aggregate(input.entries, []string{code}, input.periods, sign)
		detail.Accounts = append(detail.Accounts, AccountDetail{
			AccountCode: code,
			AccountName: names[code],
			Values:      values,
		})
	}
	sort.Slice(detail.Accounts, func(i, j int) bool {
		return detail.Accounts[i].AccountCode < detail.Accounts[j].AccountCode
	})
	return detail, nil
}

// resolveDetailCodes reuses the row resolution of the parent report so
// a drill-down always matches the summary row, including overrides and
// legacy merges. Income-statement keys bypass the balance-sheet
// sections and filter by the key directly.
func (s *Service) resolveDetailCodes(notCode string, codes []string, input reportInput) []string {
	// Composite keys come from multi-prefix cascade rows, e.g. "60+61".
	if strings.Contains(notCode, "+") {
		return filterCodesByPrefixes(codes, strings.Split(notCode, "+"))
	}
	if section, ok := taxonomy.SectionFor(notCode, taxonomy.ContextBalanceSheet); ok {
		pool := sectionCodes(codes, section)
		def := s.resolver.Resolve(notCode, section, pool, input.rules)
		return def.Codes
	}
	if section, ok := taxonomy.SectionFor(notCode, taxonomy.ContextIncomeStatement); ok {
		pool := sectionCodes(codes, section)
		def := s.resolver.Resolve(notCode, section, pool, input.rules)
		return def.Codes
	}
	return filterCodesByPrefixes(codes, []string{notCode})
}
