package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hindustan-tiles/tiles-erp/internal/auth"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
	"github.com/hindustan-tiles/tiles-erp/internal/ledger"
	"github.com/hindustan-tiles/tiles-erp/internal/payments"
	"github.com/hindustan-tiles/tiles-erp/internal/returns"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	CustomersHandler *customers.Handler
	InvoicesHandler  *invoices.Handler
	PaymentsHandler  *payments.Handler
	ReturnsHandler   *returns.Handler
	LedgerHandler    *ledger.Handler
}

// NewRouter constructs the chi.Router. Everything under /api except auth
// requires a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(params.AuthHandler.RequireAuth)

			protected.Route("/products", params.CatalogHandler.MountRoutes)
			protected.Route("/customers", func(c chi.Router) {
				params.CustomersHandler.MountRoutes(c)
				params.LedgerHandler.MountRoutes(c)
			})
			protected.Route("/invoices", params.InvoicesHandler.MountRoutes)
			protected.Route("/payments", params.PaymentsHandler.MountRoutes)
			protected.Route("/returns", params.ReturnsHandler.MountRoutes)
		})
	})

	return r
}
