package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zvrva/tablebooking/internal/domain"
)

func TestAvailabilityHandler_availableTimes(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewAvailabilityHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/venues/1/available-times?date=2025-05-21", nil)

	date := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	mockService.On("AvailableTimes", c.Request.Context(), int64(1), date).
		Return([]domain.TimeOfDay{domain.NewTimeOfDay(18, 0), domain.NewTimeOfDay(18, 30)}, nil)

	handler.availableTimes(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response availableTimesResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.VenueID)
	assert.Equal(t, "2025-05-21", response.Date)
	assert.Equal(t, []domain.TimeOfDay{domain.NewTimeOfDay(18, 0), domain.NewTimeOfDay(18, 30)}, response.AvailableTimes)

	// Times serialize as HH:MM strings on the wire.
	assert.Contains(t, w.Body.String(), `"18:00"`)
	assert.Contains(t, w.Body.String(), `"18:30"`)
}

func TestAvailabilityHandler_missingDate(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewAvailabilityHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/venues/1/available-times", nil)

	handler.availableTimes(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "AvailableTimes")
}

func TestAvailabilityHandler_windowError(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewAvailabilityHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/venues/1/available-times?date=2020-01-01", nil)

	mockService.On("AvailableTimes", c.Request.Context(), int64(1), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
		Return(nil, domain.NewError(domain.CodeInvalidWindow, "date is in the past"))

	handler.availableTimes(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "INVALID_WINDOW", response.Code)
}
