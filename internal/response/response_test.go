package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/swiftbus/service-ticketing/internal/domain"
	"github.com/swiftbus/service-ticketing/internal/response"
)

func writeError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	response.Error(c, err)
	return w
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidationError("invalid_city", "unknown city"), http.StatusBadRequest},
		{"conflict", domain.NewConflictError("already_cancelled", "booking is already cancelled"), http.StatusBadRequest},
		{"unauthorized", domain.NewUnauthorizedError("please log in first"), http.StatusUnauthorized},
		{"forbidden", domain.NewForbiddenError("admin access required"), http.StatusForbidden},
		{"not found", domain.NewNotFoundError("booking", "abc"), http.StatusNotFound},
		{"internal", domain.NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := writeError(tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestError_UnknownErrorsAreOpaque(t *testing.T) {
	w := writeError(errors.New("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "something went wrong")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestError_AppErrorCarriesReasonCode(t *testing.T) {
	w := writeError(domain.NewValidationError("past_travel_date", "travel date cannot be in the past"))

	assert.Contains(t, w.Body.String(), `"code":"past_travel_date"`)
	assert.Contains(t, w.Body.String(), "travel date cannot be in the past")
}
