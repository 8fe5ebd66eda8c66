// Package router sets up the HTTP routing for the application.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/natural-surplus/backend/internal/integration/entrypoint/controller"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/middleware"
)

// Controllers groups the HTTP handlers served by the router.
// A nil controller leaves its routes unregistered.
type Controllers struct {
	Health     *controller.HealthController
	Auth       *controller.AuthController
	Plan       *controller.PlanController
	Investment *controller.InvestmentController
	Dashboard  *controller.DashboardController
	Deposit    *controller.DepositController
	Admin      *controller.AdminController
}

// Middlewares groups the request guards applied by the router.
type Middlewares struct {
	Auth              *middleware.AuthMiddleware
	RegisterLimiter   *middleware.RateLimiter
	LoginLimiter      *middleware.RateLimiter
	CallbackAllowlist *middleware.IPAllowlist
	AdminKey          string
	AllowedOrigins    []string
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine      *gin.Engine
	controllers Controllers
	middlewares Middlewares
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(controllers Controllers, middlewares Middlewares) *Router {
	return &Router{
		controllers: controllers,
		middlewares: middlewares,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()
	if len(r.middlewares.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     r.middlewares.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupHealthRoutes() {
	if r.controllers.Health != nil {
		r.engine.GET("/health", r.controllers.Health.Check)
	}
}

func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	c := r.controllers

	if c.Auth != nil {
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limit(r.middlewares.RegisterLimiter), c.Auth.Register)
			auth.POST("/login", limit(r.middlewares.LoginLimiter), c.Auth.Login)
			auth.POST("/refresh", c.Auth.RefreshToken)
			auth.POST("/logout", c.Auth.Logout)
		}
	}

	if c.Plan != nil {
		v1.GET("/plans", c.Plan.List)
	}

	// Routes below act on the caller's own account.
	if r.middlewares.Auth != nil {
		authenticated := v1.Group("")
		authenticated.Use(r.middlewares.Auth.Authenticate())

		if c.Investment != nil {
			investments := authenticated.Group("/investments")
			{
				investments.POST("", c.Investment.Create)
				investments.GET("", c.Investment.List)
				investments.GET("/:id", c.Investment.Get)
			}
		}

		if c.Dashboard != nil {
			authenticated.GET("/dashboard", c.Dashboard.GetDashboard)
			authenticated.GET("/ledger", c.Dashboard.ListLedger)
		}

		if c.Deposit != nil {
			mpesa := authenticated.Group("/deposits/mpesa")
			{
				mpesa.POST("/stkpush", c.Deposit.STKPush)
				mpesa.GET("/status/:checkoutRequestId", c.Deposit.Status)
				mpesa.POST("/query-status", c.Deposit.QueryStatus)
			}
		}
	}

	// Daraja posts callbacks without credentials, so the route sits outside
	// the bearer group.
	if c.Deposit != nil {
		handlers := []gin.HandlerFunc{}
		if r.middlewares.CallbackAllowlist != nil {
			handlers = append(handlers, r.middlewares.CallbackAllowlist.Middleware())
		}
		handlers = append(handlers, c.Deposit.Callback)
		v1.POST("/deposits/mpesa/callback", handlers...)
	}

	if c.Admin != nil {
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdminKey(r.middlewares.AdminKey))
		{
			admin.POST("/plans/reset", c.Admin.ResetPlans)
			admin.POST("/payouts/run", c.Admin.RunPayouts)
			admin.GET("/payouts/runs", c.Admin.ListPayoutRuns)
		}
	}
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Middleware()
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
