package statement

import (
	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// Sign selects the net-value convention for a row.
type Sign int

const (
	// SignDebitMinusCredit applies to balance-sheet rows and
	// expense-class income-statement rows.
	SignDebitMinusCredit Sign = iota
	// SignCreditMinusDebit applies to revenue-class rows.
	SignCreditMinusDebit
)

// signForCode derives the convention from the account's leading digit:
// revenue-class codes (digit 6) net credit minus debit, everything
// else nets debit minus credit.
func signForCode(code string) Sign {
	segment := taxonomy.FirstSegment(code)
	if segment != "" && segment[0] == '6' {
		return SignCreditMinusDebit
	}
	return SignDebitMinusCredit
}

// aggregate sums the entries of the given account codes into a value
// per period plus the running total. Periods without entries stay at
// zero; the total is the sum of the period values by construction, so
// the two can never drift apart.
func aggregate(entries []ledger.EntrySum, codes []string, periods []ledger.Period, sign Sign) PeriodValueMap {
	included := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		included[code] = struct{}{}
	}

	values := NewPeriodValueMap(periods)
	for _, entry := range entries {
		if _, ok := included[entry.AccountCode]; !ok {
			continue
		}
		key := ledger.Period{Month: entry.Month}.Key()
		if _, ok := values[key]; !ok {
			continue
		}
		net := entry.Debit.Sub(entry.Credit)
		if sign == SignCreditMinusDebit {
			net = entry.Credit.Sub(entry.Debit)
		}
		values[key] = values[key].Add(net)
		values[TotalKey] = values[TotalKey].Add(net)
	}
	return values
}
