package domain

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusArrived   ReservationStatus = "ARRIVED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusRejected  ReservationStatus = "REJECTED"
	StatusNoShow    ReservationStatus = "NO_SHOW"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusArrived, StatusCompleted,
		StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

func (s ReservationStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// ParseStatus rejects unknown status strings at the boundary instead of
// letting them leak into queries.
func ParseStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", Errorf(CodeInvalidRequest, "unknown reservation status %q", s)
	}
	return status, nil
}

func ParseStatuses(raw []string) ([]ReservationStatus, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	statuses := make([]ReservationStatus, 0, len(raw))
	for _, s := range raw {
		status, err := ParseStatus(s)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ActiveStatuses occupy a slot for conflict purposes: a second booking for the
// same (venue, date, time) must be rejected while one of these exists.
func ActiveStatuses() []ReservationStatus {
	return []ReservationStatus{StatusPending, StatusConfirmed}
}

// BlockingStatuses are excluded from availability: active ones plus slots
// already consumed by an arrival or a completed visit.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{StatusPending, StatusConfirmed, StatusArrived, StatusCompleted}
}

const (
	MinPartySize = 1
	MaxPartySize = 20
)

type Reservation struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	VenueID         int64             `json:"venue_id"`
	Date            time.Time         `json:"date"`
	Time            TimeOfDay         `json:"time"`
	PartySize       int               `json:"party_size"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	ArrivedAt       *time.Time        `json:"arrived_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Display fields joined from the venue and user rows.
	VenueName string `json:"venue_name,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

func (r *Reservation) BelongsToUser(userID int64) bool {
	return r.UserID == userID
}

// SameDate reports whether the reservation is for the calendar day of t.
func (r *Reservation) SameDate(t time.Time) bool {
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

type ActorRole string

const (
	RoleUser     ActorRole = "USER"
	RoleOperator ActorRole = "OPERATOR"
)

// Actor is the authenticated caller, resolved once at the request boundary
// and threaded explicitly through every operation.
type Actor struct {
	ID   int64
	Role ActorRole
}

func (a Actor) IsOperator() bool {
	return a.Role == RoleOperator
}

// StatusNotification is handed to the notification sink when an operator
// approves or rejects a reservation. Delivery is fire-and-forget.
type StatusNotification struct {
	UserID          int64
	ReservationID   int64
	VenueName       string
	Approved        bool
	Message         string
	RejectionReason string
}
