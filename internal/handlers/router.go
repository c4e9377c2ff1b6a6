package handlers

import (
	"net/http"

	"pizzeria/internal/services"
	"pizzeria/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterDeps struct {
	Users         services.UserService
	Orders        services.OrderService
	StatusChanges services.StatusChangeService
	Sweep         services.SweepService
	Settings      services.SettingsService
	Metrics       *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), deps.Metrics.Middleware())

	apiHandler := NewAPIHandler(deps.Orders, deps.StatusChanges)
	adminHandler := NewAdminHandler(deps.Sweep, deps.Settings, deps.StatusChanges)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	api := router.Group("/api")
	{
		api.POST("/cart/quote", apiHandler.QuoteCart)
		api.POST("/orders", apiHandler.CreateOrder)
		api.GET("/orders/:id/estimate", apiHandler.GetEstimate)
	}

	staff := api.Group("", RequireActor(deps.Users))
	{
		staff.GET("/orders/:id", apiHandler.GetOrder)
		staff.GET("/orders/:id/next-statuses", apiHandler.GetNextStatuses)
		staff.GET("/orders/:id/history", apiHandler.GetHistory)
		staff.PUT("/orders/:id/status", apiHandler.UpdateStatus)
	}

	admin := api.Group("/admin", RequireActor(deps.Users), RequireAdmin())
	{
		admin.POST("/orders/:id/payment", apiHandler.RecordPayment)
		admin.POST("/sweep", adminHandler.RunSweep)
		admin.GET("/alerts", adminHandler.GetAlerts)
		admin.GET("/settings/notifications", adminHandler.GetNotificationSettings)
		admin.PUT("/settings/notifications", adminHandler.UpdateNotificationSettings)
		admin.GET("/settings/promotion", adminHandler.GetPromotionSettings)
		admin.PUT("/settings/promotion", adminHandler.UpdatePromotionSettings)
		admin.POST("/notifications/test-email", adminHandler.TestEmail)
		admin.POST("/notifications/test-sms", adminHandler.TestSMS)
	}

	return router
}
