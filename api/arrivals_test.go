package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

func TestArrivalHandler_confirm(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewArrivalHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(arrivalRequest{ReservationID: 42})
	c.Request = httptest.NewRequest("POST", "/arrivals", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	arrived := storedReservation()
	arrived.Status = domain.StatusArrived
	mockService.On("ConfirmArrival", c.Request.Context(), int64(42)).Return(&reservation.ArrivalResult{
		Reservation: arrived,
		Message:     "Welcome, Kim! Your table for 4 at Blue Door Bistro is ready.",
	}, nil)

	handler.confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response arrivalResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ARRIVED", response.Reservation.Status)
	assert.Contains(t, response.Message, "Welcome")
}

func TestArrivalHandler_tooEarly(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewArrivalHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(arrivalRequest{ReservationID: 42})
	c.Request = httptest.NewRequest("POST", "/arrivals", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("ConfirmArrival", c.Request.Context(), int64(42)).
		Return(nil, domain.Errorf(domain.CodeInvalidWindow, "check-in opens in 25 minutes"))

	handler.confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "INVALID_WINDOW", response.Code)
	assert.Contains(t, response.Error, "25 minutes")
}

func TestArrivalHandler_missingID(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewArrivalHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/arrivals", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ConfirmArrival")
}
