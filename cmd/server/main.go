package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskvest/internal/config"
	"taskvest/internal/db"
	"taskvest/internal/handlers"
	"taskvest/internal/money"
	"taskvest/internal/services"
	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.AppEnv)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	bonus, err := money.ParseMinor(cfg.ReferralBonus)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.ReferralBonus).Msg("invalid referral bonus")
	}

	users := store.NewUserStore(database)
	packages := store.NewPackageStore(database)
	userPackages := store.NewUserPackageStore(database)
	tasks := store.NewTaskStore(database)
	completions := store.NewCompletionStore(database)
	transactions := store.NewTransactionStore(database)
	deposits := store.NewDepositStore(database)
	withdrawals := store.NewWithdrawalStore(database)
	referrals := store.NewReferralStore(database)
	bankAccounts := store.NewBankAccountStore(database)
	audit := store.NewAuditStore(database)
	stats := store.NewStatsStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	ledger := services.NewLedgerService(users, transactions, cfg.TransactionPageMax)
	referralSvc := services.NewReferralService(referrals, ledger, bonus)
	userSvc := services.NewUserService(txRunner, users, referralSvc, audit, hub)
	packageSvc := services.NewPackageService(txRunner, packages, userPackages, ledger, hub, log)
	taskSvc := services.NewTaskService(txRunner, tasks, packages, userPackages, completions, ledger, hub)
	walletSvc := services.NewWalletService(txRunner, users, deposits, withdrawals, ledger, audit, hub)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := packageSvc.SweepExpired(ctx); err != nil {
			log.Error().Err(err).Msg("package expiry sweep failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("invalid sweep schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := handlers.New(handlers.Deps{
		TxRunner:     txRunner,
		Config:       cfg,
		Users:        users,
		Packages:     packages,
		UserPackages: userPackages,
		Tasks:        tasks,
		Completions:  completions,
		Deposits:     deposits,
		Withdrawals:  withdrawals,
		Referrals:    referrals,
		BankAccounts: bankAccounts,
		Audit:        audit,
		Stats:        stats,
		Ledger:       ledger,
		PackageSvc:   packageSvc,
		TaskSvc:      taskSvc,
		WalletSvc:    walletSvc,
		UserSvc:      userSvc,
		Hub:          hub,
		Log:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
