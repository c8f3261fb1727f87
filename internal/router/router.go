package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docflow/docs"
	"docflow/internal/domain"
	"docflow/internal/handler"
	"docflow/internal/middleware"
	"docflow/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	clientH *handler.ClientHandler,
	documentH *handler.DocumentHandler,
	recurringH *handler.RecurringHandler,
	dashboardH *handler.DashboardHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Every API route requires a valid JWT carrying a tenant
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(authSvc))
	admin := middleware.RequireRole(domain.RoleAdmin)

	clients := v1.Group("/clients")
	clients.POST("", clientH.Create)
	clients.GET("", clientH.List)
	clients.GET("/:id", clientH.GetByID)
	clients.PUT("/:id", clientH.Update)
	clients.DELETE("/:id", admin, clientH.Delete)

	documents := v1.Group("/documents")
	documents.POST("", documentH.Create)
	documents.GET("", documentH.List)
	documents.GET("/export", documentH.Export)
	documents.GET("/:id", documentH.GetByID)
	documents.PUT("/:id/items", documentH.UpdateItems)
	documents.POST("/:id/send", documentH.Send)
	documents.POST("/:id/accept", documentH.Accept)
	documents.POST("/:id/pay", documentH.Pay)
	documents.POST("/:id/cancel", documentH.Cancel)
	documents.DELETE("/:id", admin, documentH.Delete)
	documents.GET("/:id/pdf", documentH.PDF)
	documents.POST("/:id/email", documentH.Email)
	documents.POST("/:id/reminder", documentH.Reminder)
	documents.POST("/:id/payments", documentH.RecordPayment)
	documents.GET("/:id/payments", documentH.ListPayments)

	recurring := v1.Group("/recurring")
	recurring.POST("", recurringH.Create)
	recurring.GET("", recurringH.List)
	recurring.POST("/run", admin, recurringH.Run)
	recurring.GET("/:id", recurringH.GetByID)
	recurring.POST("/:id/deactivate", recurringH.Deactivate)

	v1.GET("/dashboard", dashboardH.Summary)

	return r
}
