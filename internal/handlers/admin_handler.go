package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/services"
)

// AdminHandler handles the admin dashboard
type AdminHandler struct {
	dashboard *services.DashboardService
	logger    *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboard *services.DashboardService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, logger: logger}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
