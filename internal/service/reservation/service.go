package reservation

import (
	"context"
	"log"
	"time"

	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/kafka"
	"github.com/zvrva/tablebooking/internal/repository"
)

// DefaultRejectionReason is stored and sent when an operator rejects a
// reservation without giving a reason.
const DefaultRejectionReason = "Reservation was rejected due to venue circumstances."

type ReservationUseCase interface {
	AvailableTimes(ctx context.Context, venueID int64, date time.Time) ([]domain.TimeOfDay, error)
	Create(ctx context.Context, actor domain.Actor, input CreateInput) (*domain.Reservation, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	ListForUser(ctx context.Context, actor domain.Actor, statuses []domain.ReservationStatus) ([]domain.Reservation, error)
	ListForOperator(ctx context.Context, actor domain.Actor, q OperatorQuery) ([]domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	ProcessApproval(ctx context.Context, actor domain.Actor, id int64, approved bool, reason string) (*domain.Reservation, error)
	ConfirmArrival(ctx context.Context, id int64) (*ArrivalResult, error)
	Complete(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	MarkNoShows(ctx context.Context) ([]domain.Reservation, error)
}

type CreateInput struct {
	VenueID         int64
	Date            time.Time
	Time            domain.TimeOfDay
	PartySize       int
	SpecialRequests string
}

// OperatorQuery scopes ListForOperator. A nil Venue means all venues owned by
// the operator; a non-nil Date turns the listing into the chronological
// day-plan view.
type OperatorQuery struct {
	VenueID  *int64
	Date     *time.Time
	Statuses []domain.ReservationStatus
}

// ArrivalResult pairs the checked-in reservation with the greeting shown on
// the kiosk screen.
type ArrivalResult struct {
	Reservation *domain.Reservation
	Message     string
}

type Cache interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	SetVenue(ctx context.Context, venue *domain.Venue) error
	GetAvailableTimes(ctx context.Context, venueID int64, date time.Time) ([]domain.TimeOfDay, bool, error)
	SetAvailableTimes(ctx context.Context, venueID int64, date time.Time, times []domain.TimeOfDay) error
	InvalidateAvailability(ctx context.Context, venueID int64, date time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Service struct {
	reservations       repository.ReservationRepository
	venues             repository.VenueRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	arrivalEarly       time.Duration
	arrivalLate        time.Duration
	noShowGrace        time.Duration
	now                func() time.Time
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

// WithClock replaces the wall clock, used by tests to pin "now".
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	reservations repository.ReservationRepository,
	venues repository.VenueRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	arrivalEarly, arrivalLate, noShowGrace time.Duration,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		reservations: reservations,
		venues:       venues,
		cache:        cache,
		producer:     producer,
		eventsTopic:  eventsTopic,
		arrivalEarly: arrivalEarly,
		arrivalLate:  arrivalLate,
		noShowGrace:  noShowGrace,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// AvailableTimes computes the free slot grid for a venue-day. The result is
// advisory: the booking insert re-checks occupancy atomically.
func (s *Service) AvailableTimes(ctx context.Context, venueID int64, date time.Time) ([]domain.TimeOfDay, error) {
	venue, err := s.venue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !venue.Active {
		return nil, domain.ErrVenueNotFound
	}

	now := s.now()
	if err := checkDateWindow(date, now, venue.LookAheadDays); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if times, ok, err := s.cache.GetAvailableTimes(ctx, venueID, date); err == nil && ok {
			return times, nil
		}
	}

	grid, err := GenerateSlots(venue.OpenTime, venue.CloseTime, venue.IntervalMinutes)
	if err != nil {
		return nil, err
	}

	booked, err := s.reservations.BookedTimes(ctx, venueID, date, domain.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	taken := make(map[domain.TimeOfDay]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	sameDay := sameCalendarDay(date, now)
	cutoff := domain.TimeOfDayFrom(now)

	available := make([]domain.TimeOfDay, 0, len(grid))
	for _, t := range grid {
		if taken[t] {
			continue
		}
		if sameDay && !t.After(cutoff) {
			continue
		}
		available = append(available, t)
	}

	if s.cache != nil {
		_ = s.cache.SetAvailableTimes(ctx, venueID, date, available)
	}
	return available, nil
}

// Create validates the booking request fail-fast, then performs a single
// atomic insert. The partial unique index over active statuses is the only
// arbiter under concurrency; losing the race surfaces as CONFLICT.
func (s *Service) Create(ctx context.Context, actor domain.Actor, input CreateInput) (*domain.Reservation, error) {
	venue, err := s.venue(ctx, input.VenueID)
	if err != nil {
		return nil, err
	}
	if !venue.Active {
		return nil, domain.ErrVenueNotFound
	}

	now := s.now()
	if err := checkDateWindow(input.Date, now, venue.LookAheadDays); err != nil {
		return nil, err
	}
	if sameCalendarDay(input.Date, now) && !input.Time.After(domain.TimeOfDayFrom(now)) {
		return nil, domain.Errorf(domain.CodeInvalidWindow, "time %s has already passed", input.Time)
	}
	if input.Time.Before(venue.OpenTime) || !input.Time.Before(venue.CloseTime) {
		return nil, domain.Errorf(domain.CodeInvalidWindow,
			"time %s is outside operating hours %s-%s", input.Time, venue.OpenTime, venue.CloseTime)
	}
	if venue.IntervalMinutes <= 0 {
		return nil, domain.Errorf(domain.CodeInvalidConfig, "slot interval must be positive, got %d", venue.IntervalMinutes)
	}
	if input.Time.Sub(venue.OpenTime)%venue.IntervalMinutes != 0 {
		return nil, domain.Errorf(domain.CodeInvalidSlot,
			"time %s is not on the %d-minute slot grid", input.Time, venue.IntervalMinutes)
	}
	if input.PartySize < domain.MinPartySize || input.PartySize > domain.MaxPartySize {
		return nil, domain.Errorf(domain.CodeInvalidRequest,
			"party size must be between %d and %d", domain.MinPartySize, domain.MaxPartySize)
	}

	r := &domain.Reservation{
		UserID:          actor.ID,
		VenueID:         input.VenueID,
		Date:            input.Date,
		Time:            input.Time,
		PartySize:       input.PartySize,
		Status:          domain.StatusPending,
		SpecialRequests: input.SpecialRequests,
		VenueName:       venue.Name,
	}
	if err := s.reservations.Create(ctx, r); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, r.VenueID, r.Date)
	s.publish(ctx, kafka.EventReservationCreated, r, "")
	return r, nil
}

func (s *Service) venue(ctx context.Context, id int64) (*domain.Venue, error) {
	if s.cache != nil {
		if v, err := s.cache.GetVenue(ctx, id); err == nil && v != nil {
			return v, nil
		}
	}
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetVenue(ctx, v)
	}
	return v, nil
}

func (s *Service) invalidateAvailability(ctx context.Context, venueID int64, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx, venueID, date); err != nil {
		log.Printf("WARN: invalidate availability for venue %d: %v", venueID, err)
	}
}

// publish emits a lifecycle event; delivery failures are logged, never
// propagated, so event publishing cannot undo a committed state change.
func (s *Service) publish(ctx context.Context, eventType string, r *domain.Reservation, message string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:            eventType,
		ReservationID:   r.ID,
		UserID:          r.UserID,
		VenueID:         r.VenueID,
		VenueName:       r.VenueName,
		Date:            r.Date.Format("2006-01-02"),
		Time:            r.Time.String(),
		Status:          r.Status.String(),
		Message:         message,
		RejectionReason: r.RejectionReason,
		OccurredAt:      s.now(),
	}
	key := event.Date + ":" + event.Time
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		log.Printf("WARN: publish %s for reservation %d: %v", eventType, r.ID, err)
	}
}

// notify additionally routes the event to the notifications topic consumed by
// the worker, for changes the reservation owner must hear about.
func (s *Service) notify(ctx context.Context, eventType string, r *domain.Reservation, message string) {
	s.publish(ctx, eventType, r, message)
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:            eventType,
		ReservationID:   r.ID,
		UserID:          r.UserID,
		VenueID:         r.VenueID,
		VenueName:       r.VenueName,
		Date:            r.Date.Format("2006-01-02"),
		Time:            r.Time.String(),
		Status:          r.Status.String(),
		Message:         message,
		RejectionReason: r.RejectionReason,
		OccurredAt:      s.now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, event.Date+":"+event.Time, event); err != nil {
		log.Printf("WARN: notify %s for reservation %d: %v", eventType, r.ID, err)
	}
}

func checkDateWindow(date, now time.Time, lookAheadDays int) error {
	today := startOfDay(now)
	day := startOfDay(date)
	if day.Before(today) {
		return domain.NewError(domain.CodeInvalidWindow, "date is in the past")
	}
	if day.After(today.AddDate(0, 0, lookAheadDays)) {
		return domain.Errorf(domain.CodeInvalidWindow, "date is beyond the %d-day booking window", lookAheadDays)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

var _ ReservationUseCase = (*Service)(nil)
