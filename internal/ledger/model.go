// Package ledger provides read-only access to trial-balance facts:
// per-entity, per-period debit/credit totals of leaf accounts. The
// ingestion pipeline that writes these facts lives outside this service.
package ledger

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PropertyCount is the number of free-form classification tags an
// account may carry. Ad-hoc report items filter on them positionally.
const PropertyCount = 5

// Period is one (year, month) pair for which entries exist.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Key returns the month as the string key used in report value maps.
func (p Period) Key() string {
	return strconv.Itoa(p.Month)
}

// EntrySum is a leaf account's combined debit/credit totals for one
// month. Multiple stored rows for the same (account, month) are summed
// before they reach the reporting engine.
type EntrySum struct {
	AccountCode string
	AccountName string
	Month       int
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Properties  [PropertyCount]string
}
