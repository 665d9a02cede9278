package reservation

import (
	"context"

	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/repository"
)

// Get returns one reservation, visible to its owner and to the operator of
// the owning venue.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListForUser returns the actor's own reservations, newest first.
func (s *Service) ListForUser(ctx context.Context, actor domain.Actor, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.reservations.List(ctx, repository.ReservationFilter{
		UserID:   &actor.ID,
		Statuses: statuses,
	})
}

// ListForOperator returns reservations across the operator's venues. With a
// venue filter the ownership is checked first; a date filter flips the order
// to chronological so the listing reads as the day's seating plan.
func (s *Service) ListForOperator(ctx context.Context, actor domain.Actor, q OperatorQuery) ([]domain.Reservation, error) {
	if !actor.IsOperator() {
		return nil, domain.NewError(domain.CodeForbidden, "operator role required")
	}

	filter := repository.ReservationFilter{
		Date:          q.Date,
		Statuses:      q.Statuses,
		Chronological: q.Date != nil,
	}
	if q.VenueID != nil {
		if err := s.authorizeOperator(ctx, actor, *q.VenueID); err != nil {
			return nil, err
		}
		filter.VenueID = q.VenueID
	} else {
		filter.OperatorID = &actor.ID
	}
	return s.reservations.List(ctx, filter)
}
