package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/analytics"
	"github.com/MrJamesThe3rd/stash/internal/asset"
	assetStore "github.com/MrJamesThe3rd/stash/internal/asset/store"
	"github.com/MrJamesThe3rd/stash/internal/cash"
	cashStore "github.com/MrJamesThe3rd/stash/internal/cash/store"
	"github.com/MrJamesThe3rd/stash/internal/chart"
	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/database"
	"github.com/MrJamesThe3rd/stash/internal/export"
	stashHttp "github.com/MrJamesThe3rd/stash/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/stash/internal/http/analytics"
	assetHandler "github.com/MrJamesThe3rd/stash/internal/http/asset"
	cashHandler "github.com/MrJamesThe3rd/stash/internal/http/cash"
	exportHandler "github.com/MrJamesThe3rd/stash/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/stash/internal/http/importcsv"
	perfHandler "github.com/MrJamesThe3rd/stash/internal/http/performance"
	portfolioHandler "github.com/MrJamesThe3rd/stash/internal/http/portfolio"
	txHandler "github.com/MrJamesThe3rd/stash/internal/http/transaction"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/stash/internal/portfolio/store"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
	txStore "github.com/MrJamesThe3rd/stash/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		assetService       = asset.NewService(assetStore.New(db))
		portfolioService   = portfolio.NewService(portfolioStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		cashService        = cash.NewService(cashStore.New(db), transactionService)
		importService      = importer.NewService()
		performanceService = performance.NewService(portfolioService, transactionService, cfg.Performance.XIRRGuess)
		chartService       = chart.NewService(performanceService)
		exportService      = export.NewService(performanceService, cfg.Performance.XIRRGuess)
		analyticsService   = analytics.NewService(
			portfolioService, performanceService, cashService, cfg.Performance.AnalyticsConcurrency)
	)

	router := stashHttp.New(stashHttp.Handlers{
		Assets:       assetHandler.NewHandler(assetService),
		Portfolios:   portfolioHandler.NewHandler(portfolioService),
		Performance:  perfHandler.NewHandler(performanceService, chartService),
		Export:       exportHandler.NewHandler(exportService),
		CashAccounts: cashHandler.NewHandler(cashService),
		Transactions: txHandler.NewHandler(transactionService),
		Import:       importHandler.NewHandler(importService, transactionService, portfolioService),
		Analytics:    analyticsHandler.NewHandler(analyticsService),
	}, stashHttp.Options{
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}
