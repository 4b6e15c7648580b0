package router

import (
	"loantrack/internal/config"
	"loantrack/internal/handler"
	"loantrack/internal/ledger"
	"loantrack/internal/middleware"
	"loantrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		util.Success(c, util.Response{"message": "API up"})
	})

	svc := ledger.NewService(db, ledger.Policy{
		SingleActiveLoan: cfg.Policy.SingleActiveLoan,
	})

	api := r.Group("/api")

	// login/register, no token required
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer,
		cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// everything below requires a valid token
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.PUT("/auth/update", authHandler.UpdateUser)

	pageSize := cfg.App.PageSize

	clientHandler := handler.NewClientHandler(db, svc, pageSize)
	protected.POST("/clients", clientHandler.CreateClient)
	protected.GET("/clients", clientHandler.ListClients)
	protected.GET("/clients/search", clientHandler.SearchClients)
	protected.GET("/clients/paginate", clientHandler.PaginateClients)
	protected.GET("/clients/:id", clientHandler.GetClient)
	protected.PUT("/clients/:id", clientHandler.UpdateClient)
	protected.DELETE("/clients/:id", clientHandler.DeleteClient)

	loanHandler := handler.NewLoanHandler(db, svc, pageSize)
	protected.POST("/loans", loanHandler.CreateLoan)
	protected.GET("/loans", loanHandler.ListLoans)
	protected.GET("/loans/paginate", loanHandler.PaginateLoans)
	protected.PUT("/loans/sweep-overdue", loanHandler.SweepOverdue)
	protected.GET("/loans/client/:id", loanHandler.LoansByClient)
	protected.GET("/loans/:id", loanHandler.GetLoan)
	protected.PUT("/loans/:id", loanHandler.UpdateLoan)
	protected.DELETE("/loans/:id", loanHandler.DeleteLoan)

	paymentHandler := handler.NewPaymentHandler(db, svc, pageSize)
	protected.POST("/payments", paymentHandler.CreatePayment)
	protected.GET("/payments", paymentHandler.ListPayments)
	protected.GET("/payments/paginate", paymentHandler.PaginatePayments)
	protected.GET("/payments/client/:id", paymentHandler.PaymentsByClient)
	protected.GET("/payments/loan/:id", paymentHandler.PaymentsByLoan)

	dashboardHandler := handler.NewDashboardHandler(db)
	protected.GET("/dashboard/summary", dashboardHandler.Summary)
	protected.GET("/dashboard/payments-by-month", dashboardHandler.PaymentsByMonth)
	protected.GET("/dashboard/loan-summary", dashboardHandler.LoanSummary)
	protected.GET("/dashboard/report", dashboardHandler.Report)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/reports/clients/csv", reportHandler.ExportClientsCSV)
	protected.GET("/reports/clients/xlsx", reportHandler.ExportClientsXLSX)
	protected.GET("/reports/loans/csv", reportHandler.ExportLoansCSV)
	protected.GET("/reports/loans/xlsx", reportHandler.ExportLoansXLSX)
	protected.GET("/reports/payments/csv", reportHandler.ExportPaymentsCSV)
	protected.GET("/reports/payments/xlsx", reportHandler.ExportPaymentsXLSX)

	logHandler := handler.NewLogHandler(db, pageSize)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
