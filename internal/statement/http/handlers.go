package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/opensaldo/opensaldo/internal/observability"
	"github.com/opensaldo/opensaldo/internal/platform/httpx"
	"github.com/opensaldo/opensaldo/internal/statement"
)

// Handler wires the report endpoints around the statement service.
type Handler struct {
	logger   *slog.Logger
	service  *statement.Service
	cache    *ReportCache
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler constructs the handler. cache and metrics may be nil.
func NewHandler(logger *slog.Logger, service *statement.Service, cache *ReportCache, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// MountRoutes registers the report endpoints. CSV exports are rate
// limited per client IP.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/entities/{entityID}/reports/balance-sheet", h.HandleBalanceSheet)
	r.Get("/api/entities/{entityID}/reports/income-statement", h.HandleIncomeStatement)
	r.Post("/api/entities/{entityID}/reports/grouped", h.HandleGroupedReport)
	r.Get("/api/entities/{entityID}/reports/rows/{notCode}", h.HandleRowDetail)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Get("/api/entities/{entityID}/reports/balance-sheet/export.csv", h.HandleBalanceSheetCSV)
		r.Get("/api/entities/{entityID}/reports/income-statement/export.csv", h.HandleIncomeStatementCSV)
	})
}

// HandleBalanceSheet serves the assembled balance sheet as JSON.
func (h *Handler) HandleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	payload, err := h.cachedBuild(r.Context(), entityID, "balance-sheet", year, func(ctx context.Context) (interface{}, error) {
		return h.service.BalanceSheet(ctx, entityID, year)
	})
	if err != nil {
		h.logger.Error("build balance sheet", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writeJSONPayload(w, payload)
}

// HandleIncomeStatement serves the fixed income-statement cascade.
func (h *Handler) HandleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	payload, err := h.cachedBuild(r.Context(), entityID, "income-statement", year, func(ctx context.Context) (interface{}, error) {
		return h.service.IncomeStatement(ctx, entityID, year)
	})
	if err != nil {
		h.logger.Error("build income statement", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writeJSONPayload(w, payload)
}

// HandleGroupedReport builds an ad-hoc report from caller-supplied
// group definitions. Definitions are per request and never cached.
func (h *Handler) HandleGroupedReport(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var request struct {
		Groups []statement.GroupRequest `json:"groups" validate:"required,min=1,max=50,dive"`
	}
	if err := httpx.DecodeJSON(r, &request); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(&request); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}

	start := time.Now()
	report, err := h.service.GroupedReport(r.Context(), entityID, year, request.Groups)
	if err != nil {
		h.logger.Error("build grouped report", slog.Int64("entity_id", entityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveReportBuild("grouped", time.Since(start))
	httpx.JSON(w, http.StatusOK, report)
}

// HandleRowDetail serves the drill-down of one grouping key.
func (h *Handler) HandleRowDetail(w http.ResponseWriter, r *http.Request) {
	entityID, year, err := h.parseReportParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	notCode := chi.URLParam(r, "notCode")
	if notCode == "" {
		httpx.RespondError(w, fmt.Errorf("%w: NOT code required", httpx.ErrValidation))
		return
	}

	start := time.Now()
	detail, err := h.service.RowDetail(r.Context(), entityID, notCode, year)
	if err != nil {
		h.logger.Error("build row detail", slog.Int64("entity_id", entityID), slog.String("not_code", notCode), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveReportBuild("row-detail", time.Since(start))
	httpx.JSON(w, http.StatusOK, detail)
}

// cachedBuild returns the marshalled report payload, consulting the
// cache first and collapsing concurrent builds of the same key.
func (h *Handler) cachedBuild(ctx context.Context, entityID int64, kind string, year int, build func(context.Context) (interface{}, error)) ([]byte, error) {
	key := cacheKey(entityID, kind, year, "")
	if payload, ok := h.cache.Get(ctx, key); ok {
		h.metrics.RecordCacheLookup(kind, true)
		return payload, nil
	}
	h.metrics.RecordCacheLookup(kind, false)

	result, err := buildOnce(ctx, key, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		report, err := build(ctx)
		if err != nil {
			return nil, err
		}
		h.metrics.ObserveReportBuild(kind, time.Since(start))
		payload, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("statement/http: encode %s: %w", kind, err)
		}
		h.cache.Set(ctx, key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	payload, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("statement/http: unexpected build result for %s", kind)
	}
	return payload, nil
}

func (h *Handler) parseReportParams(r *http.Request) (int64, int, error) {
	entityID, err := strconv.ParseInt(chi.URLParam(r, "entityID"), 10, 64)
	if err != nil || entityID <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid entity id", httpx.ErrValidation)
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1900 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: invalid year", httpx.ErrValidation)
	}
	return entityID, year, nil
}

func writeJSONPayload(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
