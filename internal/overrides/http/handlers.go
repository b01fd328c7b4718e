// Package http exposes the override-rule administration endpoints:
// read, wholesale replace, and reset-to-default of an entity's rule set.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/opensaldo/opensaldo/internal/overrides"
	"github.com/opensaldo/opensaldo/internal/platform/httpx"
)

// Handler wires the rule-store admin endpoints.
type Handler struct {
	logger   *slog.Logger
	repo     overrides.Repository
	validate *validator.Validate
	bust     func(ctx context.Context, entityID int64)
}

// NewHandler constructs the handler. bust is called after every write
// so cached reports of the entity are rebuilt; it may be nil.
func NewHandler(logger *slog.Logger, repo overrides.Repository, bust func(ctx context.Context, entityID int64)) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
		bust:     bust,
	}
}

// MountRoutes registers the endpoints. Writes are rate limited per
// client IP; replace and reset swap the whole rule set atomically.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/entities/{entityID}/override-rules", h.HandleGet)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Put("/api/entities/{entityID}/override-rules", h.HandleReplace)
		r.Post("/api/entities/{entityID}/override-rules/reset", h.HandleReset)
	})
}

// HandleGet returns the entity's stored rules; entities without custom
// rules get an empty list.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entityID, err := parseEntityID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rules, err := h.repo.Rules(r.Context(), entityID)
	if err != nil {
		h.logger.Error("load override rules", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if rules == nil {
		rules = []overrides.Rule{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rules": rules})
}

// HandleReplace swaps the entity's entire rule set for the submitted
// one. Rules are validated individually; duplicate (key, section)
// pairs are rejected before anything is written.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	entityID, err := parseEntityID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var request struct {
		Rules []overrides.Rule `json:"rules" validate:"required,max=200,dive"`
	}
	if err := httpx.DecodeJSON(r, &request); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(&request); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	if err := validateRuleSet(request.Rules); err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.repo.Replace(r.Context(), entityID, request.Rules); err != nil {
		h.logger.Error("replace override rules", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.bust != nil {
		h.bust(r.Context(), entityID)
	}
	h.logger.Info("override rules replaced",
		slog.Int64("entity_id", entityID), slog.Int("rules", len(request.Rules)))
	httpx.NoContent(w)
}

// HandleReset replaces the entity's rules with the canonical defaults.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	entityID, err := parseEntityID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.repo.Reset(r.Context(), entityID); err != nil {
		h.logger.Error("reset override rules", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.bust != nil {
		h.bust(r.Context(), entityID)
	}
	h.logger.Info("override rules reset", slog.Int64("entity_id", entityID))
	httpx.NoContent(w)
}

// validateRuleSet enforces section names and (key, section) uniqueness.
// The resolver would take the first match anyway, but rejecting
// duplicates up front keeps stored configurations unambiguous.
func validateRuleSet(rules []overrides.Rule) error {
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if !rule.Section.Valid() {
			return fmt.Errorf("%w: unknown section %q", httpx.ErrValidation, rule.Section)
		}
		key := rule.NotCode + "|" + string(rule.Section)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate rule for key %s in section %s", httpx.ErrValidation, rule.NotCode, rule.Section)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func parseEntityID(r *http.Request) (int64, error) {
	entityID, err := strconv.ParseInt(chi.URLParam(r, "entityID"), 10, 64)
	if err != nil || entityID <= 0 {
		return 0, fmt.Errorf("%w: invalid entity id", httpx.ErrValidation)
	}
	return entityID, nil
}
