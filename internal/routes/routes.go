// Package routes defines the API routing configuration.
// It wires repositories, services, and handlers, and groups routes by
// functionality with their middleware requirements.
package routes

import (
	"localpay/internal/config"
	"localpay/internal/handlers"
	"localpay/internal/middleware"
	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/services/aml"
	"localpay/internal/services/audit"
	"localpay/internal/services/auth"
	"localpay/internal/services/fds"
	"localpay/internal/services/risk"
	"localpay/internal/services/transaction"
	"localpay/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, logger *zap.Logger) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	merchantRepo := repositories.NewMerchantRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	ruleRepo := repositories.NewDetectionRuleRepository(db, repositories.CacheService)
	alertRepo := repositories.NewAlertRepository(db)
	caseRepo := repositories.NewAmlCaseRepository(db)
	reportRepo := repositories.NewAmlReportRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	kycRepo := repositories.NewKYCRepository(db)

	// Services
	complianceCfg := config.DefaultComplianceConfig()
	auditService := audit.NewService(auditRepo, logger)
	authService := auth.NewService(userRepo, logger)
	userService := user.NewService(userRepo, txRepo, kycRepo)

	evaluator := fds.NewEvaluator(txRepo, logger)
	fdsService := fds.NewService(ruleRepo, alertRepo, evaluator, auditService, nil, repositories.CacheService, logger)
	txService := transaction.NewService(txRepo, fdsService, logger)
	amlService := aml.NewService(complianceCfg, txRepo, userRepo, merchantRepo, caseRepo, reportRepo, auditService, repositories.CacheService, logger)
	riskService := risk.NewService(complianceCfg, alertRepo, caseRepo, txRepo, repositories.CacheService, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	txHandler := handlers.NewTransactionHandler(txService)
	ruleHandler := handlers.NewRuleHandler(fdsService)
	alertHandler := handlers.NewAlertHandler(fdsService)
	amlHandler := handlers.NewAmlHandler(amlService)
	riskHandler := handlers.NewRiskHandler(riskService, fdsService, amlService, auditService)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/login", authHandler.LoginUser)
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "LocalPay Compliance API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepo, logger)
	protected := api.Use(authMiddleware.Handler)

	// Account routes
	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Get("/transactions", userHandler.GetTransactions)
	protected.Post("/kyc", userHandler.SubmitKYC)
	protected.Post("/transactions", middleware.HasPermission(models.PermissionTransactionWrite), txHandler.CreateTransaction)

	setupComplianceRoutes(protected, txHandler, userHandler, alertHandler, amlHandler, riskHandler)
	setupAdminRoutes(app, authMiddleware, ruleHandler)
}

// setupComplianceRoutes gates the staff surface behind compliance
// permissions.
func setupComplianceRoutes(
	router fiber.Router,
	txHandler *handlers.TransactionHandler,
	userHandler *handlers.UserHandler,
	alertHandler *handlers.AlertHandler,
	amlHandler *handlers.AmlHandler,
	riskHandler *handlers.RiskHandler,
) {
	compliance := router.Group("/compliance", middleware.HasPermission(models.PermissionComplianceRead))

	compliance.Get("/transactions/:id", txHandler.GetTransaction)
	compliance.Get("/users/:id/kyc", userHandler.GetKYC)
	compliance.Put("/users/:id/kyc", middleware.HasPermission(models.PermissionComplianceWrite), userHandler.SetKYCStatus)

	// Fraud alerts
	alerts := compliance.Group("/alerts")
	alerts.Get("/", alertHandler.ListAlerts)
	alerts.Get("/:id", alertHandler.GetAlert)
	alerts.Put("/:id/status", middleware.HasPermission(models.PermissionComplianceWrite), alertHandler.UpdateAlertStatus)
	alerts.Post("/:id/assign", middleware.HasPermission(models.PermissionComplianceWrite), alertHandler.AssignAlert)

	// AML screening and cases
	compliance.Get("/screen/:type/:id", amlHandler.ScreenSubject)

	cases := compliance.Group("/cases")
	cases.Post("/", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.CreateCase)
	cases.Get("/", amlHandler.ListCases)
	cases.Get("/:id", amlHandler.GetCase)
	cases.Put("/:id/status", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.UpdateCaseStatus)
	cases.Post("/:id/assign", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.AssignInvestigator)
	cases.Put("/:id/findings", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.RecordFindings)
	cases.Post("/:id/reported", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.MarkReported)

	// Regulatory reports
	reports := compliance.Group("/reports")
	reports.Post("/", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.CreateReport)
	reports.Get("/:id", amlHandler.GetReport)
	reports.Post("/:id/submit", middleware.HasPermission(models.PermissionComplianceWrite), amlHandler.SubmitReport)

	// Composite risk and dashboard
	compliance.Get("/risk/:type/:id", riskHandler.GetCompositeRisk)
	compliance.Get("/dashboard", riskHandler.GetDashboard)
	compliance.Get("/audit-log", riskHandler.ListAuditLog)
}

// setupAdminRoutes exposes detection-rule administration to admins and
// rule managers.
func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, ruleHandler *handlers.RuleHandler) {
	rules := app.Group("/api/admin/rules", authMiddleware.Handler, middleware.HasPermission(models.PermissionRuleManage))

	rules.Post("/", ruleHandler.CreateRule)
	rules.Get("/", ruleHandler.ListRules)
	rules.Get("/:id", ruleHandler.GetRule)
	rules.Put("/:id", ruleHandler.UpdateRule)
	rules.Put("/:id/enabled", ruleHandler.SetRuleEnabled)
}
