package router

import (
	"net/http"
	"time"

	"apexmine/config"
	"apexmine/internal/handler"
	"apexmine/internal/middleware"
	"apexmine/internal/repository"
	"apexmine/internal/scheduler"
	"apexmine/internal/service"
	"apexmine/internal/ws"
	"apexmine/pkg/bankverify"
	"apexmine/pkg/cloudinary"
	"apexmine/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and routes. It returns the engine
// and the distribution scheduler for the caller to run.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, log *logger.Logger) (*gin.Engine, *scheduler.Scheduler) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(120, time.Minute)))

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	tierRepo := repository.NewTierRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	earningRepo := repository.NewEarningRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	feePaymentRepo := repository.NewFeePaymentRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	hub := ws.NewHub()
	bankVerify := bankverify.New(cfg.BankVerify.BaseURL, cfg.BankVerify.SecretKey, cfg.BankVerify.Timeout)

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, hub)
	referralSvc := service.NewReferralService(db, accountRepo, commissionRepo, settingRepo, notifSvc, log)
	authSvc := service.NewAuthService(cfg, accountRepo, referralSvc)
	miningSvc := service.NewMiningService(db, accountRepo, tierRepo, sessionRepo, earningRepo, settingRepo, notifSvc, log)
	depositSvc := service.NewDepositService(db, depositRepo, accountRepo, tierRepo, sessionRepo, settingRepo, referralSvc, notifSvc, log)
	withdrawalSvc := service.NewWithdrawalService(db, withdrawalRepo, feePaymentRepo, accountRepo, tierRepo, settingRepo, notifSvc, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	miningHandler := handler.NewMiningHandler(miningSvc, tierRepo)
	paymentHandler := handler.NewPaymentHandler(depositSvc, withdrawalSvc, settingRepo, cloud, bankVerify, log)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc)
	meHandler := handler.NewMeHandler(accountRepo, miningSvc, depositSvc, withdrawalSvc, notifSvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	adminHandler := handler.NewAdminHandler(statsRepo, accountRepo, tierRepo, settingRepo, depositSvc, withdrawalSvc, miningSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(authLimiter))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		api.GET("/tiers", miningHandler.Tiers)
		api.GET("/payments/banks", paymentHandler.Banks)

		mining := api.Group("/mining")
		mining.Use(authMw)
		{
			mining.POST("/claim", miningHandler.Claim)
			mining.GET("/status", miningHandler.Status)
			mining.GET("/earnings", miningHandler.Earnings)
		}

		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/deposits", paymentHandler.SubmitDeposit)
			payments.GET("/deposits", paymentHandler.MyDeposits)
			payments.GET("/settings", paymentHandler.PaymentSettings)
			payments.POST("/verify-account", paymentHandler.VerifyAccount)
			payments.POST("/fee", paymentHandler.PayFee)
			payments.GET("/fee", paymentHandler.MyFeePayments)
		}

		withdrawals := api.Group("/withdrawals")
		withdrawals.Use(authMw)
		{
			withdrawals.POST("", withdrawalHandler.Create)
			withdrawals.GET("", withdrawalHandler.List)
			withdrawals.GET("/limits", withdrawalHandler.Limits)
			withdrawals.GET("/track/:txid", withdrawalHandler.Track)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.Profile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.GET("/dashboard", meHandler.Dashboard)
			me.GET("/transactions", meHandler.Transactions)
			me.GET("/notifications", meHandler.Notifications)
			me.PUT("/notifications/:id/read", meHandler.MarkNotificationRead)
			me.GET("/referrals", referralHandler.Stats)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.Users)
			admin.GET("/users/:id", adminHandler.UserDetail)
			admin.POST("/users/:id/toggle-active", adminHandler.ToggleUserActive)
			admin.GET("/deposits", adminHandler.Deposits)
			admin.POST("/deposits/:id/approve", adminHandler.ApproveDeposit)
			admin.POST("/deposits/:id/reject", adminHandler.RejectDeposit)
			admin.POST("/deposits/bulk-approve", adminHandler.BulkApproveDeposits)
			admin.GET("/withdrawals", adminHandler.Withdrawals)
			admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
			admin.POST("/withdrawals/:id/processing", adminHandler.MarkWithdrawalProcessing)
			admin.GET("/fees", adminHandler.FeePayments)
			admin.POST("/fees/:id/approve", adminHandler.ApproveFeePayment)
			admin.POST("/fees/:id/reject", adminHandler.RejectFeePayment)
			admin.POST("/tiers", adminHandler.CreateTier)
			admin.PUT("/tiers/:id", adminHandler.UpdateTier)
			admin.DELETE("/tiers/:id", adminHandler.DeleteTier)
			admin.GET("/settings", adminHandler.Settings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.PUT("/settings/rate", adminHandler.UpdateExchangeRate)
			admin.POST("/distribute", adminHandler.RunDistribution)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

	sched := scheduler.New(miningSvc, cfg.Mining.SweepCheckInterval, log)
	return r, sched
}
