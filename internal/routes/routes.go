package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/cache"
	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/dashboard"
	"invoice-dashboard-backend/internal/services/invoices"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, routeCache cache.RouteCache) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	actions := invoices.NewActions(invoiceRepo, routeCache)

	invoiceHandler := handler.NewInvoiceHandler(actions, invoiceRepo, customerRepo, routeCache)
	dashboardHandler := handler.NewDashboardHandler(dashboard.NewService(invoiceRepo))

	r.Use(handler.ErrorBoundary())

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Invoice reads
	inv := api.Group("/invoices")
	inv.GET("", invoiceHandler.List)
	inv.GET("/pages", invoiceHandler.Pages)
	inv.GET("/:id", invoiceHandler.Get)

	api.GET("/customers", invoiceHandler.Customers)

	// Dashboard cards
	dash := api.Group("/dashboard")
	dash.GET("/cards", dashboardHandler.Cards)
	dash.GET("/cards/stream", dashboardHandler.StreamCards)

	// Form actions
	forms := r.Group(invoices.InvoicesPath)
	{
		forms.POST("", invoiceHandler.Create)
		forms.POST("/:id/edit", invoiceHandler.Update)
		forms.POST("/:id/delete", invoiceHandler.Delete)
	}
}
