// Package statement assembles financial statements from classified
// trial-balance entries: the balance sheet, the income-statement
// cascade, ad-hoc grouped reports, and per-row drill-downs.
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/opensaldo/opensaldo/internal/ledger"
)

// TotalKey is the reserved value-map key holding the year sum.
const TotalKey = "Total"

// PeriodValueMap carries one decimal value per month (keyed by the
// month number as a string) plus the TotalKey entry.
type PeriodValueMap map[string]decimal.Decimal

// NewPeriodValueMap returns a map zeroed for every period and the total.
func NewPeriodValueMap(periods []ledger.Period) PeriodValueMap {
	m := make(PeriodValueMap, len(periods)+1)
	for _, p := range periods {
		m[p.Key()] = decimal.Zero
	}
	m[TotalKey] = decimal.Zero
	return m
}

// Add accumulates other into m key by key.
func (m PeriodValueMap) Add(other PeriodValueMap) {
	for key, value := range other {
		m[key] = m[key].Add(value)
	}
}

// AddWeighted accumulates other multiplied by an integer weight,
// used by cascade rows derived from earlier rows.
func (m PeriodValueMap) AddWeighted(other PeriodValueMap, weight int64) {
	factor := decimal.NewFromInt(weight)
	for key, value := range other {
		m[key] = m[key].Add(value.Mul(factor))
	}
}

// Negate returns a copy of m with every value negated.
func (m PeriodValueMap) Negate() PeriodValueMap {
	out := make(PeriodValueMap, len(m))
	for key, value := range m {
		out[key] = value.Neg()
	}
	return out
}

// Total returns the year sum.
func (m PeriodValueMap) Total() decimal.Decimal {
	return m[TotalKey]
}

// RowKind tags a report row so consumers can branch on its role
// without inspecting labels.
type RowKind string

const (
	RowKindLine     RowKind = "LINE"
	RowKindHeader   RowKind = "HEADER"
	RowKindSubtotal RowKind = "SUBTOTAL"
	RowKindTotal    RowKind = "TOTAL"
)

// ReportRow is one ordered line of an assembled statement. NotCode is
// set on plain rows to support drill-down; computed rows leave it empty.
type ReportRow struct {
	Kind    RowKind        `json:"kind"`
	Label   string         `json:"label"`
	NotCode string         `json:"notCode,omitempty"`
	Values  PeriodValueMap `json:"values"`
}

// BalanceSheet is the assembled balance-sheet report.
type BalanceSheet struct {
	Year          int             `json:"year"`
	Periods       []ledger.Period `json:"periods"`
	AssetRows     []ReportRow     `json:"assetRows"`
	LiabilityRows []ReportRow     `json:"liabilityRows"`
}

// IncomeStatement is the assembled fixed-cascade income statement.
type IncomeStatement struct {
	Year    int             `json:"year"`
	Periods []ledger.Period `json:"periods"`
	Rows    []ReportRow     `json:"rows"`
}

// ReportGroup is one named group of an ad-hoc report.
type ReportGroup struct {
	Name         string         `json:"name"`
	DisplayOrder int            `json:"displayOrder"`
	Items        []ReportRow    `json:"items"`
	Total        PeriodValueMap `json:"total"`
}

// GroupedReport is the assembled ad-hoc report, groups ordered by
// their display order.
type GroupedReport struct {
	Year    int             `json:"year"`
	Periods []ledger.Period `json:"periods"`
	Groups  []ReportGroup   `json:"groups"`
}

// AccountDetail is one leaf account inside a drill-down.
type AccountDetail struct {
	AccountCode string         `json:"accountCode"`
	AccountName string         `json:"accountName"`
	Values      PeriodValueMap `json:"values"`
}

// RowDetail lists the leaf accounts feeding one summary row.
type RowDetail struct {
	NotCode  string          `json:"notCode"`
	Year     int             `json:"year"`
	Periods  []ledger.Period `json:"periods"`
	Accounts []AccountDetail `json:"accounts"`
}
