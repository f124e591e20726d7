package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baseplate/storeops/internal/api/handlers"
	"github.com/baseplate/storeops/internal/api/middleware"
	"github.com/baseplate/storeops/internal/core/auth"
)

type Router struct {
	engine              *gin.Engine
	logger              *slog.Logger
	authMiddleware      *middleware.AuthMiddleware
	formHandler         *handlers.FormHandler
	columnHandler       *handlers.ColumnHandler
	receiptHandler      *handlers.ReceiptHandler
	storeServiceHandler *handlers.StoreServiceHandler
	preferenceHandler   *handlers.PreferenceHandler
}

func NewRouter(
	logger *slog.Logger,
	authService *auth.Service,
	formHandler *handlers.FormHandler,
	columnHandler *handlers.ColumnHandler,
	receiptHandler *handlers.ReceiptHandler,
	storeServiceHandler *handlers.StoreServiceHandler,
	preferenceHandler *handlers.PreferenceHandler,
) *Router {
	return &Router{
		logger:              logger,
		authMiddleware:      middleware.NewAuthMiddleware(authService),
		formHandler:         formHandler,
		columnHandler:       columnHandler,
		receiptHandler:      receiptHandler,
		storeServiceHandler: storeServiceHandler,
		preferenceHandler:   preferenceHandler,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(middleware.AuditMiddleware())
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.ErrorHandler())

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/columns/:resource", r.columnHandler.Get)

		forms := protected.Group("/forms")
		{
			forms.GET("", r.formHandler.Types)
			forms.POST("/:entityType/evaluate", r.formHandler.Evaluate)
		}

		receipts := protected.Group("/receipts")
		{
			receipts.POST("", r.receiptHandler.Create)
			receipts.POST("/search", r.receiptHandler.Search)
			receipts.GET("/:id", r.receiptHandler.Get)
			receipts.PUT("/:id", r.receiptHandler.Update)
		}

		storeServices := protected.Group("/store-services")
		{
			storeServices.POST("", r.storeServiceHandler.Create)
			storeServices.PATCH("", r.storeServiceHandler.Patch)
			storeServices.POST("/search", r.storeServiceHandler.Search)
			storeServices.GET("/:id", r.storeServiceHandler.Get)
			storeServices.PUT("/:id", r.storeServiceHandler.Update)
		}

		protected.GET("/previous-search/:screen", r.preferenceHandler.GetPreviousSearch)
		protected.PUT("/previous-search/:screen", r.preferenceHandler.SavePreviousSearch)
		protected.GET("/previous-columns/:screen", r.preferenceHandler.GetPreviousColumns)
		protected.PUT("/previous-columns/:screen", r.preferenceHandler.SavePreviousColumns)
	}
}
