package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

// ArrivalHandler serves the kiosk check-in. It is registered without the auth
// middleware: the kiosk identifies the reservation, not the guest.
type ArrivalHandler struct {
	service reservation.ReservationUseCase
}

func NewArrivalHandler(service reservation.ReservationUseCase) *ArrivalHandler {
	return &ArrivalHandler{service: service}
}

func (h *ArrivalHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.confirm)
}

type arrivalRequest struct {
	ReservationID int64 `json:"reservation_id" binding:"required"`
}

type arrivalResponse struct {
	Reservation reservationResponse `json:"reservation"`
	Message     string              `json:"message"`
}

func (h *ArrivalHandler) confirm(c *gin.Context) {
	var req arrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ConfirmArrival(c.Request.Context(), req.ReservationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, arrivalResponse{
		Reservation: toReservationResponse(result.Reservation),
		Message:     result.Message,
	})
}
