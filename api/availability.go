package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

type AvailabilityHandler struct {
	service reservation.ReservationUseCase
}

func NewAvailabilityHandler(service reservation.ReservationUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/available-times", h.availableTimes)
}

type availableTimesResponse struct {
	VenueID        int64              `json:"venue_id"`
	Date           string             `json:"date"`
	AvailableTimes []domain.TimeOfDay `json:"available_times"`
}

func (h *AvailabilityHandler) availableTimes(c *gin.Context) {
	venueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	times, err := h.service.AvailableTimes(c.Request.Context(), venueID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availableTimesResponse{
		VenueID:        venueID,
		Date:           date.Format(dateLayout),
		AvailableTimes: times,
	})
}
