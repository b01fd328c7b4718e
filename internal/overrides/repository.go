package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opensaldo/opensaldo/internal/platform/db"
)

// Repository stores the per-entity rule configuration. The whole rule
// set is one unit: reads return all rules, writes replace all rules.
type Repository interface {
	// Rules loads the entity's rule set. A missing or malformed
	// configuration degrades to an empty set rather than failing the
	// request; only transport-level read errors propagate.
	Rules(ctx context.Context, entityID int64) ([]Rule, error)
	// Replace atomically swaps the entity's entire rule set.
	Replace(ctx context.Context, entityID int64, rules []Rule) error
	// Reset replaces the entity's rules with the canonical default set.
	Reset(ctx context.Context, entityID int64) error
}

type repository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates the pgx-backed rule store.
func NewRepository(db *pgxpool.Pool, logger *slog.Logger) Repository {
	return &repository{db: db, logger: logger}
}

func (r *repository) Rules(ctx context.Context, entityID int64) ([]Rule, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT rules FROM report_override_configs WHERE entity_id = $1`, entityID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("overrides: load rules: %w", err)
	}
	var rules []Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		// Malformed configuration must never fail a report request.
		r.logger.Warn("override config malformed, using defaults",
			slog.Int64("entity_id", entityID), slog.Any("error", err))
		return nil, nil
	}
	return rules, nil
}

func (r *repository) Replace(ctx context.Context, entityID int64, rules []Rule) error {
	for i := range rules {
		if rules[i].ID == uuid.Nil {
			rules[i].ID = uuid.New()
		}
	}
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("overrides: encode rules: %w", err)
	}
	// The swap and its revision row commit together so the history
	// never diverges from the live configuration.
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO report_override_configs (entity_id, rules, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (entity_id) DO UPDATE SET rules = EXCLUDED.rules, updated_at = now()`,
			entityID, raw); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO report_override_revisions (entity_id, rules, replaced_at)
			VALUES ($1, $2, now())`,
			entityID, raw)
		return err
	})
	if err != nil {
		return fmt.Errorf("overrides: replace rules: %w", err)
	}
	return nil
}

func (r *repository) Reset(ctx context.Context, entityID int64) error {
	return r.Replace(ctx, entityID, DefaultRuleSet())
}
