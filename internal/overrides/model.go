// Package overrides manages entity-specific replacements of the
// default grouping-key classification and resolves the effective row
// definition for a grouping key.
package overrides

import (
	"github.com/google/uuid"

	"github.com/opensaldo/opensaldo/internal/taxonomy"
)

// Rule replaces the default mapping for one (grouping key, section)
// pair. An empty Prefixes list means the captured account codes are
// derived from the grouping key itself. Rules are replaced wholesale
// per entity, never merged field by field.
type Rule struct {
	ID       uuid.UUID        `json:"id"`
	NotCode  string           `json:"notCode" validate:"required,min=1,max=3"`
	Section  taxonomy.Section `json:"section" validate:"required"`
	Label    string           `json:"label" validate:"required,max=160"`
	Prefixes []string         `json:"prefixes,omitempty" validate:"omitempty,max=20,dive,min=2,max=6"`
}

// RowDefinition is the resolver output for one report row. It is
// recomputed per request and never persisted.
type RowDefinition struct {
	Label      string
	NotCode    string
	Section    taxonomy.Section
	Codes      []string
	MergedKeys []string
	Overridden bool
}
