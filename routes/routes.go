package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/configs"
	"github.com/HydraItalia/hydra-sub002/controllers"
	"github.com/HydraItalia/hydra-sub002/middlewares"
	"github.com/HydraItalia/hydra-sub002/repository"
	"github.com/HydraItalia/hydra-sub002/services"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, processor services.PaymentProcessor, log *zap.SugaredLogger) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	subRepo := repository.NewSubOrderRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Collaborators
	audit := services.NewAuditService(auditRepo, log)
	events := services.NewLogPublisher(log)
	notifier := services.NewLogNotifier(log)
	pricer := services.NewCatalogPricer(vendorRepo)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	cartSvc := services.NewCartService(db, cartRepo, pricer)
	orderSvc := services.NewOrderService(db, orderRepo, subRepo, cartRepo, pricer, notifier, audit, events, log, cfg.HydraFeeBps)
	paySvc := services.NewPaymentService(db, subRepo, processor, audit, events, log, cfg.PaymentMaxRetryAttempts)
	retrySvc := services.NewRetryService(subRepo, paySvc, log, cfg.PaymentMaxRetryAttempts, cfg.PaymentRetryBatch)
	webhookSvc := services.NewWebhookService(clientRepo, vendorRepo, audit, log)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	cartCtrl := controllers.NewCartController(cartSvc, userRepo)
	orderCtrl := controllers.NewOrderController(orderSvc, paySvc, userRepo)
	adminCtrl := controllers.NewAdminPaymentController(orderSvc, paySvc, subRepo, auditRepo)
	jobsCtrl := controllers.NewJobsController(retrySvc, log)
	webhookCtrl := controllers.NewWebhookController(webhookSvc, cfg.StripeWebhookSecret, log)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
	}

	// Cart + Orders (client)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.GET("/cart", cartCtrl.Get)
		u.POST("/cart/items", cartCtrl.AddItem)
		u.DELETE("/cart/items/:id", cartCtrl.RemoveItem)

		u.POST("/orders/checkout", orderCtrl.Checkout)
		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id", orderCtrl.Detail)
	}

	// Admin (admin/agent only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin", "agent"))
	{
		admin.GET("/suborders/failed", adminCtrl.ListFailed)
		admin.GET("/suborders/:id/audit", adminCtrl.SubOrderAuditTrail)
		admin.POST("/suborders/:id/retry-payment", adminCtrl.ManualRetry)
		admin.POST("/suborders/:id/flag-client-update", adminCtrl.FlagClientUpdate)
		admin.POST("/suborders/:id/clear-client-update", adminCtrl.ClearClientUpdate)
		admin.POST("/suborders/:id/confirm", adminCtrl.ConfirmSubOrder)
		admin.POST("/orders/:id/cancel", adminCtrl.CancelOrder)
	}

	// Scheduled jobs (shared-secret bearer)
	jobs := r.Group("/api/jobs", middlewares.JobSecretMiddleware(cfg.JobSecret, cfg.Env))
	{
		jobs.GET("/payment-retry", jobsCtrl.PaymentRetry)
		jobs.POST("/payment-retry", jobsCtrl.PaymentRetry)
	}

	// Processor webhooks (signature-verified ใน controller)
	r.POST("/api/stripe/webhooks", webhookCtrl.Receive)
}
