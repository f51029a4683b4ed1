package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftbus/service-ticketing/internal/domain"
)

// Body is the common response envelope. Every response carries a
// human-readable message; data and paging are present where applicable.
type Body struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Total   *int64      `json:"total,omitempty"`
	Page    int         `json:"page,omitempty"`
	Limit   int         `json:"limit,omitempty"`
}

// Success writes a 200 response with the given message and data.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Message: message, Data: data})
}

// Created writes a 201 response with the given message and data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Message: message, Data: data})
}

// Paginated writes a 200 response carrying one page of items.
func Paginated(c *gin.Context, message string, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Body{
		Message: message,
		Data:    items,
		Total:   &total,
		Page:    page,
		Limit:   limit,
	})
}

// BadRequest writes a 400 response for requests rejected before reaching a
// service (malformed body, bad path parameter).
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Message: message, Code: "bad_request"})
}

// Error maps an error to its HTTP status and writes the response. Internal
// error text never reaches the caller: anything that is not an AppError
// becomes a generic 500 body.
func Error(c *gin.Context, err error) {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, Body{
			Message: "something went wrong",
			Code:    "internal",
		})
		return
	}

	c.JSON(statusFor(appErr.Kind), Body{Message: appErr.Message, Code: appErr.Reason})
}

// statusFor maps an error kind to its HTTP status. Conflicts are reported
// as 400, matching the original API's behavior for AlreadyCancelled.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
