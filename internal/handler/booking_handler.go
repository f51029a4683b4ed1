package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/response"
	"github.com/swiftbus/service-ticketing/internal/ticket"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// BookingHandler exposes the booking endpoints for authenticated users.
type BookingHandler struct {
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// RegisterRoutes wires the booking endpoints onto the API group. All routes
// require a session.
func (h *BookingHandler) RegisterRoutes(api *gin.RouterGroup) {
	authed := api.Group("", middleware.RequireSession())
	authed.POST("/book", h.CreateBooking)
	authed.GET("/my_bookings", h.ListMyBookings)
	authed.GET("/bookings/:id", h.GetBooking)
	authed.GET("/bookings/:id/download", h.DownloadTicket)
	authed.DELETE("/bookings/:id/cancel", h.CancelBooking)
}

// CreateBooking handles POST /api/book.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "starts_from, destination and travel_date are required")
		return
	}

	bk, err := h.bookings.CreateBooking(c.Request.Context(), sess.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "booking confirmed", bk)
}

// ListMyBookings handles GET /api/my_bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	page, limit := parsePagination(c)

	result, err := h.bookings.GetAccountBookings(c.Request.Context(), sess.AccountID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "bookings retrieved", result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	bk, err := h.bookings.GetBooking(c.Request.Context(), sess.AccountID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "booking retrieved", bk)
}

// DownloadTicket handles GET /api/bookings/:id/download. The ticket comes
// back as a PDF attachment.
func (h *BookingHandler) DownloadTicket(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	bk, err := h.bookings.GetDomainBooking(c.Request.Context(), sess.AccountID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := ticket.Render(bk)
	if err != nil {
		h.logger.Error("failed to render ticket",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("ticket_%s.pdf", bk.ID())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CancelBooking handles DELETE /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	bk, err := h.bookings.CancelBooking(c.Request.Context(), sess.AccountID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "booking cancelled", bk)
}

// parsePagination reads page and limit from the query string, clamping both
// to sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
