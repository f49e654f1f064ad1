package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pahana-edu/billing/internal/billing"
	"github.com/pahana-edu/billing/internal/cashiers"
	"github.com/pahana-edu/billing/internal/customers"
	"github.com/pahana-edu/billing/internal/masterdata"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Pool              *pgxpool.Pool
	CustomerHandler   *customers.Handler
	CashierHandler    *cashiers.Handler
	MasterDataHandler *masterdata.Handler
	BillingHandler    *billing.Handler
}

// NewRouter constructs the chi.Router for the billing API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if params.Pool != nil {
			if err := params.Pool.Ping(req.Context()); err != nil {
				params.Logger.Warn("health check db ping", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/customers", params.CustomerHandler.MountRoutes)
	r.Route("/cashiers", params.CashierHandler.MountRoutes)
	r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
	r.Route("/bills", params.BillingHandler.MountRoutes)

	return r
}
