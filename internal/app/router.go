package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/opensaldo/opensaldo/internal/observability"
	overrideshttp "github.com/opensaldo/opensaldo/internal/overrides/http"
	statementhttp "github.com/opensaldo/opensaldo/internal/statement/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	StatementHandler *statementhttp.Handler
	OverridesHandler *overrideshttp.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with opensaldo defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.StatementHandler != nil {
		params.StatementHandler.MountRoutes(r)
	}
	if params.OverridesHandler != nil {
		params.OverridesHandler.MountRoutes(r)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
