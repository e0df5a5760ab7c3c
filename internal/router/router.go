package router

import (
	"time"

	"loyaltypos/internal/config"
	"loyaltypos/internal/handler"
	"loyaltypos/internal/infra"
	"loyaltypos/internal/middleware"
	"loyaltypos/internal/repository"
	"loyaltypos/internal/service"
	"loyaltypos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, lcfg service.LoyaltyConfig, db *gorm.DB, rdb *redis.Client, snapshotCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(operatorRepo, cfg)
	ledgerSvc := service.NewLedgerService(paymentRepo, redemptionRepo, customerRepo, lcfg)
	customerSvc := service.NewCustomerService(customerRepo, ledgerSvc, lcfg)
	paymentSvc := service.NewPaymentService(customerRepo, paymentRepo, redemptionRepo, ledgerSvc, dispatcher, lcfg)
	voucherSvc := service.NewVoucherService(voucherRepo, redemptionRepo, ledgerSvc, lcfg)
	adminSvc := service.NewAdminService(customerRepo, paymentRepo, redemptionRepo, voucherRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	operatorsH := handler.NewOperatorsHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	vouchersH := handler.NewVouchersHandler(voucherSvc)
	adminH := handler.NewAdminHandler(adminSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, snapshotCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		anyOperator := middleware.RequireRole("cashier", "manager", "admin")

		v1.GET("/customers", middleware.RequireRole("manager", "admin"), customersH.List)
		v1.PUT("/customers/:phone", anyOperator, customersH.Save)
		v1.GET("/customers/:phone", anyOperator, customersH.Get)
		v1.GET("/customers/:phone/points", anyOperator, customersH.Balance)

		v1.POST("/payments", anyOperator, paymentsH.Process)
		v1.GET("/payments", middleware.RequireRole("manager", "admin"), paymentsH.List)

		v1.POST("/vouchers", anyOperator, vouchersH.Issue)
		v1.GET("/vouchers", anyOperator, vouchersH.List)
		v1.POST("/vouchers/:code/redeem", anyOperator, vouchersH.Redeem)
		v1.GET("/rewards/tiers", anyOperator, vouchersH.Tiers)

		operators := v1.Group("/operators", middleware.RequireRole("admin"))
		{
			operators.POST("", operatorsH.Create)
			operators.GET("", operatorsH.List)
			operators.DELETE("/:id", operatorsH.Deactivate)
		}

		admin := v1.Group("/admin", middleware.RequireRole("admin"))
		{
			admin.POST("/reset", adminH.Reset)
			admin.POST("/snapshot", adminH.Snapshot)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
