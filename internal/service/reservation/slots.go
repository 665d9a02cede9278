package reservation

import (
	"github.com/zvrva/tablebooking/internal/domain"
)

// GenerateSlots expands an operating window into the bookable time grid:
// strictly increasing times from start, stepped by intervalMinutes, excluding
// end itself. A misconfigured profile yields INVALID_CONFIG rather than an
// empty grid so the bad venue row is noticed.
func GenerateSlots(start, end domain.TimeOfDay, intervalMinutes int) ([]domain.TimeOfDay, error) {
	if intervalMinutes <= 0 {
		return nil, domain.Errorf(domain.CodeInvalidConfig, "slot interval must be positive, got %d", intervalMinutes)
	}
	if !start.Before(end) {
		return nil, domain.Errorf(domain.CodeInvalidConfig, "operating window %s-%s is empty", start, end)
	}

	slots := make([]domain.TimeOfDay, 0, end.Sub(start)/intervalMinutes)
	for t := start; t.Before(end); t = t.Add(intervalMinutes) {
		slots = append(slots, t)
	}
	return slots, nil
}
