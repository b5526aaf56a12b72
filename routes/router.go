package routes

import (
	"github.com/financelog/finance_backend/handlers"
	"github.com/financelog/finance_backend/middlewares"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the public auth endpoints and the JWT-protected
// API surface.
func SetupRoutes(r *gin.Engine) {
	r.Use(middlewares.AuthMiddleware())

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/login", handlers.LoginHandler)
	}

	api := r.Group("/api")
	api.Use(middlewares.RequireAuth())
	{
		api.GET("/auth/me", handlers.MeHandler)
		api.PUT("/profile", handlers.UpdateProfileHandler)
		api.POST("/profile/avatar", handlers.UploadAvatarHandler)

		api.GET("/accounts", handlers.ListAccountsHandler)
		api.POST("/accounts", handlers.CreateAccountHandler)
		api.GET("/accounts/:id", handlers.GetAccountHandler)
		api.PUT("/accounts/:id", handlers.UpdateAccountHandler)
		api.DELETE("/accounts/:id", handlers.DeleteAccountHandler)

		api.GET("/categories", handlers.ListCategoriesHandler)
		api.POST("/categories", handlers.CreateCategoryHandler)
		api.PUT("/categories/:id", handlers.UpdateCategoryHandler)
		api.DELETE("/categories/:id", handlers.DeleteCategoryHandler)

		api.GET("/transactions", handlers.ListTransactionsHandler)
		api.POST("/transactions", handlers.CreateTransactionHandler)
		api.GET("/transactions/:id", handlers.GetTransactionHandler)
		api.PUT("/transactions/:id", handlers.UpdateTransactionHandler)
		api.DELETE("/transactions/:id", handlers.DeleteTransactionHandler)

		api.GET("/payments", handlers.ListPaymentsHandler)
		api.POST("/payments", handlers.CreatePaymentHandler)
		api.GET("/payments/upcoming", handlers.UpcomingPaymentsHandler)
		api.GET("/payments/:id", handlers.GetPaymentHandler)
		api.PUT("/payments/:id", handlers.UpdatePaymentHandler)
		api.DELETE("/payments/:id", handlers.DeletePaymentHandler)
		api.GET("/payments/:id/occurrences", handlers.ExpandPaymentHandler)
		api.POST("/payments/:id/occurrences", handlers.CreatePaymentOccurrenceHandler)
		api.DELETE("/payments/:id/occurrences/:occurrenceId", handlers.DeletePaymentOccurrenceHandler)

		api.GET("/calendar", handlers.CalendarHandler)

		api.GET("/investments", handlers.ListInvestmentsHandler)
		api.POST("/investments", handlers.CreateInvestmentHandler)
		api.POST("/investments/simulate", handlers.SimulateInvestmentHandler)
		api.GET("/investments/:id", handlers.GetInvestmentHandler)
		api.PUT("/investments/:id", handlers.UpdateInvestmentHandler)
		api.DELETE("/investments/:id", handlers.DeleteInvestmentHandler)

		api.GET("/dashboard", handlers.DashboardHandler)

		api.GET("/reports/transactions/export", handlers.ExportTransactionsHandler)
	}
}
