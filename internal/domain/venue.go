package domain

import "time"

// Venue is the operating profile consumed by the availability and booking
// logic. The venue CRUD itself lives outside this service; only the fields
// the reservation core reads are modelled.
type Venue struct {
	ID              int64
	Name            string
	OperatorID      int64
	Active          bool
	OpenTime        TimeOfDay
	CloseTime       TimeOfDay
	IntervalMinutes int
	LookAheadDays   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnedBy reports whether the operator may act on this venue's reservations.
func (v *Venue) OwnedBy(operatorID int64) bool {
	return v.OperatorID == operatorID
}
