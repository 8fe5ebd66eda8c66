// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/config"
	"github.com/natural-surplus/backend/internal/application/adapter"
	"github.com/natural-surplus/backend/internal/application/usecase/auth"
	"github.com/natural-surplus/backend/internal/application/usecase/dashboard"
	"github.com/natural-surplus/backend/internal/application/usecase/deposit"
	"github.com/natural-surplus/backend/internal/application/usecase/investment"
	"github.com/natural-surplus/backend/internal/application/usecase/ledger"
	"github.com/natural-surplus/backend/internal/application/usecase/payout"
	"github.com/natural-surplus/backend/internal/application/usecase/plan"
	"github.com/natural-surplus/backend/internal/infra/server/router"
	"github.com/natural-surplus/backend/internal/integration/adapters"
	"github.com/natural-surplus/backend/internal/integration/cache"
	"github.com/natural-surplus/backend/internal/integration/email"
	"github.com/natural-surplus/backend/internal/integration/email/templates"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/controller"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/middleware"
	"github.com/natural-surplus/backend/internal/integration/mpesa"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/scheduler"
)

const mpesaTokenPrefix = "natural-surplus:mpesa:token:"

// Injector holds all application dependencies.
type Injector struct {
	Config          *config.Config
	DB              *gorm.DB
	Redis           redis.UniversalClient
	Router          *router.Router
	EmailWorker     *email.Worker
	PayoutScheduler *scheduler.PayoutScheduler
	SeedPlans       *plan.SeedPlansUseCase
}

// Option customises the wiring built by NewInjector.
type Option func(*options)

type options struct {
	clock adapter.Clock
}

// WithClock replaces the wall clock used by the use cases and workers.
func WithClock(clock adapter.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, rdb redis.UniversalClient, opts ...Option) (*Injector, error) {
	fundingMode, err := cfg.FundingMode()
	if err != nil {
		return nil, err
	}

	o := options{clock: adapters.NewSystemClock()}
	for _, opt := range opts {
		opt(&o)
	}
	clock := o.clock

	// Repositories
	txManager := persistence.NewTransactionManager(db)
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	planRepo := persistence.NewPlanRepository(db)
	investmentRepo := persistence.NewInvestmentRepository(db)
	ledgerRepo := persistence.NewLedgerRepository(db)
	depositRepo := persistence.NewDepositRepository(db)
	runRepo := persistence.NewPayoutRunRepository(db)
	dashboardRepo := persistence.NewDashboardRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Services
	passwordService := adapters.NewPasswordService(cfg.JWT.BcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)
	codeGenerator := adapters.NewReferralCodeGenerator()
	notifier := email.NewService(emailQueueRepo, clock, cfg.Email.AppBaseURL)
	gateway := mpesa.NewClient(mpesa.Config{
		BaseURL:        cfg.Mpesa.BaseURL,
		ConsumerKey:    cfg.Mpesa.ConsumerKey,
		ConsumerSecret: cfg.Mpesa.ConsumerSecret,
		ShortCode:      cfg.Mpesa.ShortCode,
		Passkey:        cfg.Mpesa.Passkey,
		CallbackURL:    cfg.Mpesa.CallbackURL,
		Timeout:        cfg.Mpesa.Timeout,
	}, cache.NewTokenCache(rdb, mpesaTokenPrefix), clock)

	// Auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, codeGenerator, notifier, clock)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Plan and investment use cases
	listPlansUseCase := plan.NewListPlansUseCase(planRepo)
	seedPlansUseCase := plan.NewSeedPlansUseCase(planRepo, clock)
	propagator := investment.NewCommissionPropagator(userRepo, ledgerRepo, clock)
	createInvestmentUseCase := investment.NewCreateInvestmentUseCase(
		txManager, userRepo, planRepo, investmentRepo, ledgerRepo, propagator, clock, fundingMode,
	)
	listInvestmentsUseCase := investment.NewListInvestmentsUseCase(investmentRepo)
	getInvestmentUseCase := investment.NewGetInvestmentUseCase(investmentRepo)

	// Account use cases
	getDashboardUseCase := dashboard.NewGetDashboardUseCase(userRepo, investmentRepo, dashboardRepo)
	listLedgerUseCase := ledger.NewListLedgerEntriesUseCase(ledgerRepo)

	// Payout use cases
	runPayoutScanUseCase := payout.NewRunPayoutScanUseCase(
		txManager, userRepo, investmentRepo, ledgerRepo, runRepo,
		cache.NewPayoutLock(rdb), notifier, clock, cfg.Payout.LockTTL,
	)
	listPayoutRunsUseCase := payout.NewListPayoutRunsUseCase(runRepo)
	payoutScheduler := scheduler.NewPayoutScheduler(runPayoutScanUseCase, scheduler.PayoutSchedulerConfig{
		FirstRunDelay: cfg.Payout.FirstRunDelay,
		Interval:      cfg.Payout.Interval,
	})

	// Deposit use cases
	creditor := deposit.NewCreditConfirmedDepositUseCase(txManager, userRepo, ledgerRepo, clock)
	initiateDepositUseCase := deposit.NewInitiateDepositUseCase(depositRepo, gateway, clock)
	getDepositStatusUseCase := deposit.NewGetDepositStatusUseCase(depositRepo)
	queryDepositStatusUseCase := deposit.NewQueryDepositStatusUseCase(txManager, depositRepo, userRepo, gateway, creditor, notifier, clock)
	handleCallbackUseCase := deposit.NewHandleCallbackUseCase(txManager, depositRepo, userRepo, creditor, notifier, clock)

	// Email worker
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	emailWorker := email.NewWorker(emailQueueRepo, emailSender(cfg), renderer, clock, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Retention:    cfg.Email.Retention,
	})

	// Middleware
	callbackAllowlist, err := middleware.NewIPAllowlist(cfg.Mpesa.AllowedCallbackIPs)
	if err != nil {
		return nil, fmt.Errorf("MPESA_CALLBACK_ALLOWED_CIDRS: %w", err)
	}
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var registerLimiter, loginLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		registerLimiter = middleware.NewRateLimiterWithConfig(rdb, "register", 1000, time.Minute)
		loginLimiter = middleware.NewRateLimiterWithConfig(rdb, "login", 1000, time.Minute)
	} else {
		registerLimiter = middleware.NewRateLimiter(rdb, "register")
		loginLimiter = middleware.NewRateLimiter(rdb, "login")
	}

	// Controllers
	healthController := controller.NewHealthController(
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	)

	r := router.NewRouter(
		router.Controllers{
			Health:     healthController,
			Auth:       controller.NewAuthController(registerUseCase, loginUseCase, refreshTokenUseCase, logoutUseCase),
			Plan:       controller.NewPlanController(listPlansUseCase),
			Investment: controller.NewInvestmentController(createInvestmentUseCase, listInvestmentsUseCase, getInvestmentUseCase),
			Dashboard:  controller.NewDashboardController(getDashboardUseCase, listLedgerUseCase),
			Deposit: controller.NewDepositController(
				initiateDepositUseCase,
				getDepositStatusUseCase,
				queryDepositStatusUseCase,
				handleCallbackUseCase,
			),
			Admin: controller.NewAdminController(seedPlansUseCase, listPayoutRunsUseCase, payoutScheduler),
		},
		router.Middlewares{
			Auth:              middleware.NewAuthMiddleware(tokenService),
			RegisterLimiter:   registerLimiter,
			LoginLimiter:      loginLimiter,
			CallbackAllowlist: callbackAllowlist,
			AdminKey:          cfg.Admin.APIKey,
			AllowedOrigins:    cfg.CORS.AllowedOrigins,
		},
	)

	return &Injector{
		Config:          cfg,
		DB:              db,
		Redis:           rdb,
		Router:          r,
		EmailWorker:     emailWorker,
		PayoutScheduler: payoutScheduler,
		SeedPlans:       seedPlansUseCase,
	}, nil
}

// emailSender returns the Resend client, or a log-only sender when no API key is set.
func emailSender(cfg *config.Config) adapter.EmailSender {
	if cfg.Email.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, emails will only be logged")
		return email.LogSender{}
	}
	return email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, cfg.Email.ReplyTo)
}
