package handlers

import (
	"net/http"

	"taskvest/internal/config"
	"taskvest/internal/db"
	"taskvest/internal/middleware"
	"taskvest/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	packages     PackageStore
	userPackages UserPackageStore
	tasks        TaskStore
	completions  CompletionStore
	deposits     DepositStore
	withdrawals  WithdrawalStore
	referrals    ReferralStore
	bankAccounts BankAccountStore
	audit        AuditStore
	stats        StatsStore
	ledger       LedgerService
	packageSvc   PackageService
	taskSvc      TaskService
	walletSvc    WalletService
	userSvc      UserService
	hub          *websocket.Hub
	log          zerolog.Logger
}

type Deps struct {
	TxRunner     db.TxRunner
	Config       config.Config
	Users        UserStore
	Packages     PackageStore
	UserPackages UserPackageStore
	Tasks        TaskStore
	Completions  CompletionStore
	Deposits     DepositStore
	Withdrawals  WithdrawalStore
	Referrals    ReferralStore
	BankAccounts BankAccountStore
	Audit        AuditStore
	Stats        StatsStore
	Ledger       LedgerService
	PackageSvc   PackageService
	TaskSvc      TaskService
	WalletSvc    WalletService
	UserSvc      UserService
	Hub          *websocket.Hub
	Log          zerolog.Logger
}

func New(deps Deps) *Handler {
	return &Handler{
		txRunner:     deps.TxRunner,
		cfg:          deps.Config,
		users:        deps.Users,
		packages:     deps.Packages,
		userPackages: deps.UserPackages,
		tasks:        deps.Tasks,
		completions:  deps.Completions,
		deposits:     deps.Deposits,
		withdrawals:  deps.Withdrawals,
		referrals:    deps.Referrals,
		bankAccounts: deps.BankAccounts,
		audit:        deps.Audit,
		stats:        deps.Stats,
		ledger:       deps.Ledger,
		packageSvc:   deps.PackageSvc,
		taskSvc:      deps.TaskSvc,
		walletSvc:    deps.WalletSvc,
		userSvc:      deps.UserSvc,
		hub:          deps.Hub,
		log:          deps.Log,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(requestLogger(h.log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authed).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/wallet/balance", h.GetBalance)
		r.Get("/wallet/transactions", h.ListTransactions)
		r.Post("/wallet/deposits", h.RequestDeposit)
		r.Get("/wallet/deposits", h.ListDeposits)
		r.Post("/wallet/withdrawals", h.RequestWithdrawal)
		r.Get("/wallet/withdrawals", h.ListWithdrawals)
		r.Get("/wallet/bank-account", h.GetCustomerBankAccount)
		r.Put("/wallet/bank-account", h.UpsertCustomerBankAccount)
		r.Get("/bank-accounts", h.ListAdminBankAccounts)
		r.Get("/packages", h.ListPackages)
		r.Post("/packages/{id}/purchase", h.PurchasePackage)
		r.Get("/my/packages", h.ListMyPackages)
		r.Get("/my/packages/{id}/tasks", h.ListPackageTasks)
		r.Post("/tasks/complete", h.CompleteTask)
		r.Get("/tasks/today", h.ListTodayCompletions)
		r.Get("/referrals", h.ListReferrals)
	})

	router.Get("/ws/balance", h.WSBalance)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireAdmin(h.users))
		r.Get("/users", h.AdminListUsers)
		r.Get("/deposits", h.AdminListDeposits)
		r.Post("/deposits/{id}/approve", h.AdminApproveDeposit)
		r.Post("/deposits/{id}/reject", h.AdminRejectDeposit)
		r.Get("/withdrawals", h.AdminListWithdrawals)
		r.Post("/withdrawals/{id}/approve", h.AdminApproveWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.AdminRejectWithdrawal)
		r.Post("/packages", h.AdminCreatePackage)
		r.Put("/packages/{id}", h.AdminUpdatePackage)
		r.Delete("/packages/{id}", h.AdminDeactivatePackage)
		r.Post("/tasks", h.AdminCreateTask)
		r.Post("/bank-accounts", h.AdminCreateBankAccount)
		r.Delete("/bank-accounts/{id}", h.AdminDeleteBankAccount)
		r.Get("/audit", h.AdminListAuditLogs)
		r.Get("/stats", h.AdminStats)
		r.Get("/reconcile", h.Reconcile)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
