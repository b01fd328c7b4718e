package statement

import (
	"context"
	"log/slog"
	"sort"

	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/overrides"
	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// Service orchestrates taxonomy, override resolution, and aggregation
// into full reports. It holds no per-request state; every build is a
// pure read against the ledger and override stores, so concurrent
// requests for the same entity are safe.
type Service struct {
	ledger   ledger.Repository
	resolver *overrides.Resolver
	logger   *slog.Logger
}

// NewService constructs the statement service.
func NewService(ledgerRepo ledger.Repository, resolver *overrides.Resolver, logger *slog.Logger) *Service {
	return &Service{ledger: ledgerRepo, resolver: resolver, logger: logger}
}

// reportInput is the shared per-request read: ordered periods, summed
// leaf entries, and the entity's override rules.
type reportInput struct {
	year    int
	periods []ledger.Period
	entries []ledger.EntrySum
	rules   []overrides.Rule
}

func (s *Service) loadInput(ctx context.Context, entityID int64, year int) (reportInput, error) {
	periods, err := s.ledger.Periods(ctx, entityID, year)
	if err != nil {
		return reportInput{}, err
	}
	if len(periods) == 0 {
		// No data for the year: callers emit an empty, well-formed
		// report with the zero-year sentinel.
		return reportInput{periods: []ledger.Period{}}, nil
	}
	entries, err := s.ledger.LeafEntries(ctx, entityID, year)
	if err != nil {
		return reportInput{}, err
	}
	rules, err := s.resolver.RulesFor(ctx, entityID)
	if err != nil {
		return reportInput{}, err
	}
	return reportInput{year: year, periods: periods, entries: entries, rules: rules}, nil
}

// distinctCodes returns the sorted distinct account codes present in
// the entries. Empty codes are dropped; they classify into no row.
func distinctCodes(entries []ledger.EntrySum) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, entry := range entries {
		if entry.AccountCode == "" {
			continue
		}
		if _, ok := seen[entry.AccountCode]; ok {
			continue
		}
		seen[entry.AccountCode] = struct{}{}
		codes = append(codes, entry.AccountCode)
	}
	sort.Strings(codes)
	return codes
}

// sectionCodes filters codes to those owned by a section's digit.
func sectionCodes(codes []string, section taxonomy.Section) []string {
	var out []string
	for _, code := range codes {
		if section.Owns(code) {
			out = append(out, code)
		}
	}
	return out
}

// groupingKeys returns the sorted distinct grouping keys of the codes.
func groupingKeys(codes []string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, code := range codes {
		key := taxonomy.GroupingKey(code)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
