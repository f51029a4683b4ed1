package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/response"
)

// AdminHandler exposes the admin reporting and override endpoints.
type AdminHandler struct {
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{bookings: bookings, logger: logger}
}

// RegisterRoutes wires the admin endpoints onto the API group. Every route
// requires the admin flag on the session.
func (h *AdminHandler) RegisterRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.GET("", h.Dashboard)
	admin.GET("/stats", h.Stats)
	admin.GET("/bookings", h.ListBookings)
	admin.PUT("/bookings/:id/status", h.OverrideStatus)
}

// Dashboard handles GET /api/admin.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.bookings.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "dashboard retrieved", dashboard)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "stats retrieved", stats)
}

// ListBookings handles GET /api/admin/bookings. Admins see every booking
// regardless of owner.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "bookings retrieved", bookings, total, page, limit)
}

type overrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OverrideStatus handles PUT /api/admin/bookings/:id/status. Any non-empty
// status value is accepted and stored as-is.
func (h *AdminHandler) OverrideStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req overrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	if err := h.bookings.OverrideStatus(c.Request.Context(), bookingID, req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "booking status updated", gin.H{
		"booking_id": bookingID,
		"status":     req.Status,
	})
}
