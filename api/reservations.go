package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

const dateLayout = "2006-01-02"

type ReservationHandler struct {
	service reservation.ReservationUseCase
}

func NewReservationHandler(service reservation.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.listMine)
	router.GET("/venue", h.listForVenue)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/approval", h.approval)
	router.POST("/:id/complete", h.complete)
}

type createReservationRequest struct {
	VenueID         int64  `json:"venue_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

type approvalRequest struct {
	Approved        *bool  `json:"approved" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

type reservationResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	UserName        string `json:"user_name,omitempty"`
	VenueID         int64  `json:"venue_id"`
	VenueName       string `json:"venue_name,omitempty"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ArrivedAt       string `json:"arrived_at,omitempty"`
	CompletedAt     string `json:"completed_at,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	resp := reservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		VenueID:         r.VenueID,
		VenueName:       r.VenueName,
		Date:            r.Date.Format(dateLayout),
		Time:            r.Time.String(),
		PartySize:       r.PartySize,
		Status:          r.Status.String(),
		SpecialRequests: r.SpecialRequests,
		RejectionReason: r.RejectionReason,
	}
	if r.ArrivedAt != nil {
		resp.ArrivedAt = r.ArrivedAt.Format(time.RFC3339)
	}
	if r.CompletedAt != nil {
		resp.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	if !r.CreatedAt.IsZero() {
		resp.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func toReservationList(reservations []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	return out
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	slot, err := domain.ParseTimeOfDay(req.Time)
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), actorFrom(c), reservation.CreateInput{
		VenueID:         req.VenueID,
		Date:            date,
		Time:            slot,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(r))
}

func (h *ReservationHandler) listMine(c *gin.Context) {
	statuses, err := domain.ParseStatuses(c.QueryArray("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	reservations, err := h.service.ListForUser(c.Request.Context(), actorFrom(c), statuses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationList(reservations))
}

func (h *ReservationHandler) listForVenue(c *gin.Context) {
	var q reservation.OperatorQuery

	if raw := c.Query("venue_id"); raw != "" {
		venueID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
			return
		}
		q.VenueID = &venueID
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		q.Date = &date
	}
	statuses, err := domain.ParseStatuses(c.QueryArray("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	q.Statuses = statuses

	reservations, err := h.service.ListForOperator(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationList(reservations))
}

func (h *ReservationHandler) get(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	r, err := h.service.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *ReservationHandler) approval(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.service.ProcessApproval(c.Request.Context(), actorFrom(c), id, *req.Approved, req.RejectionReason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(r))
}

func (h *ReservationHandler) complete(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	r, err := h.service.Complete(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(r))
}

func reservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
