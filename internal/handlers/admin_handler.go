package handlers

import (
	"net/http"

	"pizzeria/internal/models"
	"pizzeria/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	sweepService    services.SweepService
	settingsService services.SettingsService
	statusChanges   services.StatusChangeService
}

func NewAdminHandler(sweepService services.SweepService, settingsService services.SettingsService, statusChanges services.StatusChangeService) *AdminHandler {
	return &AdminHandler{
		sweepService:    sweepService,
		settingsService: settingsService,
		statusChanges:   statusChanges,
	}
}

func (h *AdminHandler) RunSweep(c *gin.Context) {
	applied, err := h.sweepService.SweepActiveOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to run sweep")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

func (h *AdminHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.sweepService.GetAdminAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// Settings endpoints
func (h *AdminHandler) GetNotificationSettings(c *gin.Context) {
	settings, err := h.settingsService.GetNotificationSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load notification settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateNotificationSettings(c *gin.Context) {
	var settings models.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.settingsService.UpdateNotificationSettings(c.Request.Context(), &settings); err != nil {
		respondError(c, err, "Failed to save notification settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) GetPromotionSettings(c *gin.Context) {
	settings, err := h.settingsService.GetPromotionSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load promotion settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdatePromotionSettings(c *gin.Context) {
	var settings models.PromotionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.settingsService.UpdatePromotionSettings(c.Request.Context(), &settings); err != nil {
		respondError(c, err, "Failed to save promotion settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Channel checks report their outcome in the body with a 200 status.
func (h *AdminHandler) TestEmail(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusChanges.TestEmailConfiguration(c.Request.Context()))
}

func (h *AdminHandler) TestSMS(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusChanges.TestSMSConfiguration(c.Request.Context()))
}
