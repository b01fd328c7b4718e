package statement

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/overrides"
)

type fakeLedger struct {
	periods []ledger.Period
	entries []ledger.EntrySum
	err     error
}

func (f *fakeLedger) LeafEntries(ctx context.Context, entityID int64, year int) ([]ledger.EntrySum, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]ledger.EntrySum(nil), f.entries...), nil
}

func (f *fakeLedger) Periods(ctx context.Context, entityID int64, year int) ([]ledger.Period, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]ledger.Period(nil), f.periods...), nil
}

type fakeRules struct {
	rules []overrides.Rule
}

func (f *fakeRules) Rules(ctx context.Context, entityID int64) ([]overrides.Rule, error) {
	return append([]overrides.Rule(nil), f.rules...), nil
}

func (f *fakeRules) Replace(ctx context.Context, entityID int64, rules []overrides.Rule) error {
	f.rules = append([]overrides.Rule(nil), rules...)
	return nil
}

func (f *fakeRules) Reset(ctx context.Context, entityID int64) error {
	f.rules = overrides.DefaultRuleSet()
	return nil
}

func newTestService(led *fakeLedger, rules *fakeRules) *Service {
	if rules == nil {
		rules = &fakeRules{}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewService(led, overrides.NewResolver(rules), logger)
}

func entry(code, name string, month int, debit, credit int64) ledger.EntrySum {
	return ledger.EntrySum{
		AccountCode: code,
		AccountName: name,
		Month:       month,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
	}
}

func months(ms ...int) []ledger.Period {
	periods := make([]ledger.Period, 0, len(ms))
	for _, m := range ms {
		periods = append(periods, ledger.Period{Year: 2024, Month: m})
	}
	return periods
}

func requireValue(t *testing.T, values PeriodValueMap, key, want string) {
	t.Helper()
	got, ok := values[key]
	if !ok {
		t.Fatalf("value map missing key %q", key)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("values[%q] = %s, want %s", key, got, want)
	}
}

// requireConsistent checks the construction invariant that the total
// equals the sum of the period values.
func requireConsistent(t *testing.T, periods []ledger.Period, values PeriodValueMap) {
	t.Helper()
	sum := decimal.Zero
	for _, p := range periods {
		sum = sum.Add(values[p.Key()])
	}
	if !sum.Equal(values.Total()) {
		t.Fatalf("total %s does not equal period sum %s", values.Total(), sum)
	}
}
