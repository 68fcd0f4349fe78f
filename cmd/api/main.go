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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fundly/internal/asset"
	"github.com/MrJamesThe3rd/fundly/internal/auth"
	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	campaignStore "github.com/MrJamesThe3rd/fundly/internal/campaign/store"
	"github.com/MrJamesThe3rd/fundly/internal/config"
	"github.com/MrJamesThe3rd/fundly/internal/database"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	donationStore "github.com/MrJamesThe3rd/fundly/internal/donation/store"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/fundly/internal/expense/store"
	"github.com/MrJamesThe3rd/fundly/internal/export"
	fundlyHttp "github.com/MrJamesThe3rd/fundly/internal/http"
	adminHandler "github.com/MrJamesThe3rd/fundly/internal/http/admin"
	campaignHandler "github.com/MrJamesThe3rd/fundly/internal/http/campaign"
	donationHandler "github.com/MrJamesThe3rd/fundly/internal/http/donation"
	expenseHandler "github.com/MrJamesThe3rd/fundly/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/fundly/internal/http/export"
	reportHandler "github.com/MrJamesThe3rd/fundly/internal/http/report"
	withdrawalHandler "github.com/MrJamesThe3rd/fundly/internal/http/withdrawal"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
	"github.com/MrJamesThe3rd/fundly/internal/logger"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
	"github.com/MrJamesThe3rd/fundly/internal/report"
	reportStore "github.com/MrJamesThe3rd/fundly/internal/report/store"
	"github.com/MrJamesThe3rd/fundly/internal/settlement"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
	withdrawalStore "github.com/MrJamesThe3rd/fundly/internal/withdrawal/store"
	"github.com/MrJamesThe3rd/fundly/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(logger.New(cfg.App.Env))
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.App.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	blobs, err := storage.New(ctx, storage.Config{
		Driver:   cfg.Storage.Driver,
		LocalDir: cfg.Storage.LocalDir,
		BaseURL:  cfg.Storage.BaseURL,
		Bucket:   cfg.Storage.Bucket,
		Region:   cfg.Storage.Region,
	})
	if err != nil {
		return err
	}

	pool := worker.NewPool(cfg.Worker.Size, cfg.Worker.Capacity)

	var (
		campaigns = campaignStore.New(db)
		engine    = ledger.NewEngine(ledgerStore.New(db, cfg.Ledger.LockTimeout))
		retries   = cfg.Ledger.Retries
		backoff   = cfg.Ledger.Backoff
	)

	var (
		assetService      = asset.NewService(campaigns, blobs, pool)
		campaignService   = campaign.NewService(campaigns, assetService, cfg.App.PublicBaseURL)
		donationService   = donation.NewService(donationStore.New(db), engine, donation.WithRetries(retries, backoff))
		expenseService    = expense.NewService(expenseStore.New(db), engine, blobs, expense.WithRetries(retries, backoff))
		withdrawalService = withdrawal.NewService(withdrawalStore.New(db, cfg.Ledger.LockTimeout), withdrawal.WithRetries(retries))
		reportService     = report.NewService(reportStore.New(db))
		settlementService = settlement.NewService(donationService)
		exportService     = export.NewService(reportService, blobs)
	)

	sweep(ctx, campaignService, donationService, expenseService)

	var (
		campaignH   = campaignHandler.NewHandler(campaignService)
		donationH   = donationHandler.NewHandler(donationService, campaignService)
		expenseH    = expenseHandler.NewHandler(expenseService, campaignService)
		withdrawalH = withdrawalHandler.NewHandler(withdrawalService, campaignService)
		reportH     = reportHandler.NewHandler(reportService, donationService, expenseService)
		exportH     = exportHandler.NewHandler(exportService, campaignService)
		adminH      = adminHandler.NewHandler(engine, campaignService, donationService, expenseService, settlementService)
	)

	routerCfg := fundlyHttp.Config{
		Tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		AdminRole:     cfg.Auth.AdminRole,
		WebhookSecret: cfg.Payment.WebhookSecret,
		CORSOrigins:   cfg.App.CORSOrigins,
	}

	if local, ok := blobs.(*storage.Local); ok {
		routerCfg.Assets = local.Handler()
	}

	router := fundlyHttp.New(routerCfg, fundlyHttp.Handlers{
		Campaigns:   campaignH,
		Donations:   donationH,
		Expenses:    expenseH,
		Withdrawals: withdrawalH,
		Reports:     reportH,
		Exports:     exportH,
		Admin:       adminH,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "env", cfg.App.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	if err := pool.Stop(shutdownCtx); err != nil {
		slog.Error("failed to drain worker pool", "error", err)
	}

	return nil
}

// sweep finishes work a previous process left behind: donations confirmed but
// never credited, expenses recorded but never covered and placements still
// missing their assets. Failures are logged; the admin sweep endpoints can
// retry them.
func sweep(ctx context.Context, campaigns *campaign.Service, donations *donation.Service, expenses *expense.Service) {
	if n, err := donations.CreditPending(ctx); err != nil {
		slog.Error("failed to credit pending donations", "credited", n, "error", err)
	}

	if n, err := expenses.CoverPending(ctx); err != nil {
		slog.Error("failed to cover pending expenses", "allocations", n, "error", err)
	}

	if n, err := campaigns.EnqueueMissingAssets(ctx); err != nil {
		slog.Error("failed to enqueue missing assets", "queued", n, "error", err)
	} else if n > 0 {
		slog.Info("enqueued missing assets", "queued", n)
	}
}
