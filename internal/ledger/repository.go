package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository exposes the two read queries the reporting engine needs.
type Repository interface {
	// LeafEntries returns the summed debit/credit totals of every leaf
	// account for the entity and year, one row per (account, month),
	// ordered by account code then month.
	LeafEntries(ctx context.Context, entityID int64, year int) ([]EntrySum, error)
	// Periods returns the distinct months with entries for the entity
	// and year, ascending.
	Periods(ctx context.Context, entityID int64, year int) ([]Period, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository creates the pgx-backed ledger reader.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) LeafEntries(ctx context.Context, entityID int64, year int) ([]EntrySum, error) {
	rows, err := r.db.Query(ctx, `
		SELECT account_code,
		       MAX(account_name),
		       month,
		       SUM(debit)::text,
		       SUM(credit)::text,
		       COALESCE(MAX(prop_1), ''), COALESCE(MAX(prop_2), ''),
		       COALESCE(MAX(prop_3), ''), COALESCE(MAX(prop_4), ''),
		       COALESCE(MAX(prop_5), '')
		FROM ledger_entries
		WHERE entity_id = $1 AND year = $2 AND is_leaf
		GROUP BY account_code, month
		ORDER BY account_code, month`, entityID, year)
	if err != nil {
		return nil, fmt.Errorf("ledger: query leaf entries: %w", err)
	}
	defer rows.Close()

	var entries []EntrySum
	for rows.Next() {
		var e EntrySum
		var debit, credit string
		if err := rows.Scan(&e.AccountCode, &e.AccountName, &e.Month, &debit, &credit,
			&e.Properties[0], &e.Properties[1], &e.Properties[2], &e.Properties[3], &e.Properties[4]); err != nil {
			return nil, fmt.Errorf("ledger: scan leaf entry: %w", err)
		}
		if e.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, fmt.Errorf("ledger: parse debit for %s: %w", e.AccountCode, err)
		}
		if e.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, fmt.Errorf("ledger: parse credit for %s: %w", e.AccountCode, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Periods(ctx context.Context, entityID int64, year int) ([]Period, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT year, month
		FROM ledger_entries
		WHERE entity_id = $1 AND year = $2
		ORDER BY month`, entityID, year)
	if err != nil {
		return nil, fmt.Errorf("ledger: query periods: %w", err)
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("ledger: scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
