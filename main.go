package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/plotvest/plotvest/config"
	"github.com/plotvest/plotvest/handlers"
	"github.com/plotvest/plotvest/services"
	"github.com/plotvest/plotvest/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on system env vars")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	if cfg.SeedDemoData {
		n, err := db.SeedDemoProperties(context.Background())
		if err != nil {
			logger.WithError(err).Fatal("failed to seed demo properties")
		}
		if n > 0 {
			logger.WithField("properties", n).Info("seeded demo properties")
		}
	}

	defaultRate, err := decimal.NewFromString(cfg.DefaultRate)
	if err != nil {
		logger.WithError(err).Fatal("invalid DEFAULT_EXCHANGE_RATE")
	}
	rateService := services.NewRateService(defaultRate, cfg.RateMaxAge)

	chainService, err := services.NewChainService(cfg.SolanaRPCURL, cfg.DepositAccount, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize chain service")
	}

	walletService := services.NewWalletService(db, chainService, rateService, logger,
		cfg.CryptoType, cfg.DepositTimeout)
	investmentService := services.NewInvestmentService(db, rateService, logger,
		cfg.PurchaseMaxRetries, cfg.PurchaseRetryBase)

	sweeper := services.NewSweeper(db, logger, cfg.PendingTimeout, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	watcher := services.NewDepositWatcher(walletService, logger, cfg.DepositPollInterval)
	watcher.Start()
	defer watcher.Stop()

	propertyHandler := handlers.NewPropertyHandler(db)
	walletHandler := handlers.NewWalletHandler(walletService)
	shareHandler := handlers.NewShareHandler(db)
	transactionHandler := handlers.NewTransactionHandler(investmentService)
	rateHandler := handlers.NewRateHandler(rateService)
	userHandler := handlers.NewUserHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", propertyHandler.List)
		r.Get("/properties/{id}", propertyHandler.Get)
		r.Get("/rate", rateHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(handlers.Identity(db, cfg.AdminOpenID))

			r.Get("/me", userHandler.Me)
			r.Get("/wallet", walletHandler.Get)
			r.Post("/wallet/deposits", walletHandler.SubmitDeposit)
			r.Get("/wallet/deposits", walletHandler.ListDeposits)
			r.Get("/shares", shareHandler.List)
			r.Get("/transactions", transactionHandler.List)
			r.Post("/transactions", transactionHandler.Create)
			r.Get("/transactions/{id}", transactionHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(handlers.RequireAdmin)
				r.Post("/properties", propertyHandler.Create)
				r.Put("/rate", rateHandler.Update)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("server shutdown")
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}
}
