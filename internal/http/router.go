package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/stash/internal/http/analytics"
	"github.com/MrJamesThe3rd/stash/internal/http/asset"
	"github.com/MrJamesThe3rd/stash/internal/http/cash"
	"github.com/MrJamesThe3rd/stash/internal/http/export"
	"github.com/MrJamesThe3rd/stash/internal/http/importcsv"
	"github.com/MrJamesThe3rd/stash/internal/http/performance"
	"github.com/MrJamesThe3rd/stash/internal/http/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/http/transaction"
)

type Handlers struct {
	Assets       *asset.Handler
	Portfolios   *portfolio.Handler
	Performance  *performance.Handler
	Export       *export.Handler
	CashAccounts *cash.Handler
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Analytics    *analytics.Handler
}

type Options struct {
	Timeout        time.Duration
	AllowedOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/assets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Assets.Routes(r)
		})

		r.Route("/portfolios", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Portfolios.Routes(r)
			h.Performance.Routes(r)
			h.Export.Routes(r)
		})

		r.Route("/cash-accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.CashAccounts.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/analytics", h.Analytics.Routes)
	})

	return router
}
