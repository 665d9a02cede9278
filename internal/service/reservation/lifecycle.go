package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/kafka"
	"github.com/zvrva/tablebooking/internal/repository"
)

// Cancel moves a PENDING or CONFIRMED reservation to CANCELLED. Allowed for
// the reservation's owner and for the operator of the owning venue.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, current); err != nil {
		return nil, err
	}

	switch current.Status {
	case domain.StatusCancelled:
		return nil, domain.NewError(domain.CodeInvalidRequest, "reservation is already cancelled")
	case domain.StatusPending, domain.StatusConfirmed:
	default:
		return nil, invalidTransition(current.Status, domain.StatusCancelled)
	}

	updated, err := s.transition(ctx, id, domain.ActiveStatuses(), domain.StatusCancelled, repository.TransitionStamps{})
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, updated.VenueID, updated.Date)
	s.publish(ctx, kafka.EventReservationCancelled, updated, "")
	return updated, nil
}

// ProcessApproval lets the owning operator confirm or reject a PENDING
// reservation. A blank rejection reason falls back to DefaultRejectionReason.
// The owner is notified either way; notification failure never rolls back the
// decision.
func (s *Service) ProcessApproval(ctx context.Context, actor domain.Actor, id int64, approved bool, reason string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperator(ctx, actor, current.VenueID); err != nil {
		return nil, err
	}

	target := domain.StatusConfirmed
	stamps := repository.TransitionStamps{}
	if !approved {
		target = domain.StatusRejected
		if reason == "" {
			reason = DefaultRejectionReason
		}
		stamps.RejectionReason = &reason
	}
	if current.Status != domain.StatusPending {
		return nil, invalidTransition(current.Status, target)
	}

	updated, err := s.transition(ctx, id, []domain.ReservationStatus{domain.StatusPending}, target, stamps)
	if err != nil {
		return nil, err
	}

	if approved {
		s.notify(ctx, kafka.EventReservationApproved, updated,
			fmt.Sprintf("Your reservation at %s has been confirmed.", updated.VenueName))
	} else {
		// The slot returns to the availability grid the moment the row
		// leaves the active statuses.
		s.invalidateAvailability(ctx, updated.VenueID, updated.Date)
		s.notify(ctx, kafka.EventReservationRejected, updated,
			fmt.Sprintf("Your reservation at %s has been rejected.", updated.VenueName))
	}
	return updated, nil
}

// ConfirmArrival is the kiosk check-in: unauthenticated, keyed by reservation
// id. The same-day precondition is checked before any window math so a
// wrong-day reservation never produces a minutes-remaining message.
func (s *Service) ConfirmArrival(ctx context.Context, id int64) (*ArrivalResult, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !current.SameDate(now) {
		return nil, domain.NewError(domain.CodeInvalidWindow, "reservation is not for today")
	}
	if current.Status != domain.StatusConfirmed {
		return nil, invalidTransition(current.Status, domain.StatusArrived)
	}

	clock := domain.TimeOfDayFrom(now)
	earliest := current.Time.Add(-int(s.arrivalEarly.Minutes()))
	latest := current.Time.Add(int(s.arrivalLate.Minutes()))
	if clock.Before(earliest) {
		return nil, domain.Errorf(domain.CodeInvalidWindow,
			"check-in opens in %d minutes", earliest.Sub(clock))
	}
	if clock.After(latest) {
		return nil, domain.NewError(domain.CodeInvalidWindow,
			"the check-in window has closed, please contact the venue")
	}

	updated, err := s.transition(ctx, id,
		[]domain.ReservationStatus{domain.StatusConfirmed}, domain.StatusArrived,
		repository.TransitionStamps{ArrivedAt: &now})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Welcome, %s! Your table for %d at %s is ready.",
		updated.UserName, updated.PartySize, updated.VenueName)
	s.publish(ctx, kafka.EventReservationArrived, updated, message)
	return &ArrivalResult{Reservation: updated, Message: message}, nil
}

// Complete closes out an ARRIVED reservation once the visit ends.
func (s *Service) Complete(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOperator(ctx, actor, current.VenueID); err != nil {
		return nil, err
	}
	if current.Status != domain.StatusArrived {
		return nil, invalidTransition(current.Status, domain.StatusCompleted)
	}

	now := s.now()
	updated, err := s.transition(ctx, id,
		[]domain.ReservationStatus{domain.StatusArrived}, domain.StatusCompleted,
		repository.TransitionStamps{CompletedAt: &now})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventReservationCompleted, updated, "")
	return updated, nil
}

// MarkNoShows sweeps PENDING/CONFIRMED reservations whose slot plus the grace
// period has passed. Run periodically by the worker binary.
func (s *Service) MarkNoShows(ctx context.Context) ([]domain.Reservation, error) {
	deadline := s.now().Add(-s.noShowGrace)
	marked, err := s.reservations.MarkNoShowsBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range marked {
		r := &marked[i]
		s.invalidateAvailability(ctx, r.VenueID, r.Date)
		s.publish(ctx, kafka.EventReservationNoShow, r, "")
	}
	return marked, nil
}

// authorize admits the reservation's owner or the owning venue's operator.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, r *domain.Reservation) error {
	if r.BelongsToUser(actor.ID) {
		return nil
	}
	if actor.IsOperator() {
		return s.authorizeOperator(ctx, actor, r.VenueID)
	}
	return domain.NewError(domain.CodeForbidden, "reservation belongs to another user")
}

// authorizeOperator requires the actor to be the operator owning venueID.
func (s *Service) authorizeOperator(ctx context.Context, actor domain.Actor, venueID int64) error {
	if !actor.IsOperator() {
		return domain.NewError(domain.CodeForbidden, "operator role required")
	}
	venue, err := s.venue(ctx, venueID)
	if err != nil {
		return err
	}
	if !venue.OwnedBy(actor.ID) {
		return domain.NewError(domain.CodeForbidden, "venue belongs to another operator")
	}
	return nil
}

// transition applies a guarded status change. When the guard matches nothing
// the row is re-read so a concurrent change reports the status it actually
// has instead of a spurious not-found.
func (s *Service) transition(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, stamps repository.TransitionStamps) (*domain.Reservation, error) {
	updated, err := s.reservations.Transition(ctx, id, from, to, stamps)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			current, gerr := s.reservations.GetByID(ctx, id)
			if gerr != nil {
				return nil, gerr
			}
			return nil, invalidTransition(current.Status, to)
		}
		return nil, err
	}
	return updated, nil
}

func invalidTransition(from, to domain.ReservationStatus) error {
	return domain.Errorf(domain.CodeInvalidTransition, "cannot move reservation from %s to %s", from, to)
}
