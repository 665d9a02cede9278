package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/tablebooking/internal/domain"
)

// TransitionStamps carries the optional columns written alongside a status
// change. Nil fields leave the stored value untouched.
type TransitionStamps struct {
	ArrivedAt       *time.Time
	CompletedAt     *time.Time
	RejectionReason *string
}

// ReservationFilter narrows List. OperatorID scopes to all venues owned by
// that operator; VenueID scopes to one venue. Chronological orders by
// date/time ascending (venue-day view), otherwise newest first.
type ReservationFilter struct {
	UserID        *int64
	VenueID       *int64
	OperatorID    *int64
	Date          *time.Time
	Statuses      []domain.ReservationStatus
	Chronological bool
}

type ReservationRepository interface {
	// Create inserts a PENDING reservation. The partial unique index on
	// (venue_id, reservation_date, reservation_time) over active statuses
	// makes the conflict check and the insert a single atomic operation;
	// a collision surfaces as domain.ErrSlotTaken.
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	BookedTimes(ctx context.Context, venueID int64, date time.Time, statuses []domain.ReservationStatus) ([]domain.TimeOfDay, error)
	List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error)
	// Transition performs a guarded single-statement status change. It
	// returns domain.ErrReservationNotFound when no row matched id with one
	// of the expected statuses, leaving classification to the caller.
	Transition(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, stamps TransitionStamps) (*domain.Reservation, error)
	// MarkNoShowsBefore moves PENDING/CONFIRMED reservations whose slot lies
	// before the deadline to NO_SHOW and returns the affected rows.
	MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `r.id, r.user_id, r.venue_id, r.reservation_date, r.reservation_time,
	r.party_size, r.status, r.special_requests, r.rejection_reason,
	r.arrived_at, r.completed_at, r.created_at, r.updated_at,
	v.name, u.name`

const reservationJoins = ` FROM reservations r
	JOIN venues v ON v.id = r.venue_id
	JOIN users u ON u.id = r.user_id`

func (p *PGReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	err := p.db.QueryRow(ctx, `INSERT INTO reservations
		(user_id, venue_id, reservation_date, reservation_time, party_size, status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		r.UserID, r.VenueID, r.Date, timeParam(r.Time), r.PartySize, r.Status.String(), r.SpecialRequests).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (p *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := p.db.QueryRow(ctx, `SELECT `+reservationColumns+reservationJoins+` WHERE r.id=$1`, id)
	r, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

func (p *PGReservationRepository) BookedTimes(ctx context.Context, venueID int64, date time.Time, statuses []domain.ReservationStatus) ([]domain.TimeOfDay, error) {
	rows, err := p.db.Query(ctx, `SELECT reservation_time FROM reservations
		WHERE venue_id=$1 AND reservation_date=$2 AND status = ANY($3)
		ORDER BY reservation_time`,
		venueID, date, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("booked times: %w", err)
	}
	defer rows.Close()

	var times []domain.TimeOfDay
	for rows.Next() {
		var t pgtype.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, domain.TimeOfDayFromMicroseconds(t.Microseconds))
	}
	return times, rows.Err()
}

func (p *PGReservationRepository) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoins
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.UserID != nil {
		add("r.user_id=$%d", *f.UserID)
	}
	if f.VenueID != nil {
		add("r.venue_id=$%d", *f.VenueID)
	}
	if f.OperatorID != nil {
		add("v.operator_id=$%d", *f.OperatorID)
	}
	if f.Date != nil {
		add("r.reservation_date=$%d", *f.Date)
	}
	if len(f.Statuses) > 0 {
		add("r.status = ANY($%d)", statusStrings(f.Statuses))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	if f.Chronological {
		query += " ORDER BY r.reservation_date, r.reservation_time"
	} else {
		query += " ORDER BY r.reservation_date DESC, r.reservation_time DESC"
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

func (p *PGReservationRepository) Transition(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, stamps TransitionStamps) (*domain.Reservation, error) {
	row := p.db.QueryRow(ctx, `UPDATE reservations r SET
			status=$2,
			arrived_at=COALESCE($3, r.arrived_at),
			completed_at=COALESCE($4, r.completed_at),
			rejection_reason=COALESCE($5, r.rejection_reason),
			updated_at=now()
		FROM venues v, users u
		WHERE r.id=$1 AND r.status = ANY($6) AND v.id = r.venue_id AND u.id = r.user_id
		RETURNING `+reservationColumns,
		id, to.String(), stamps.ArrivedAt, stamps.CompletedAt, stamps.RejectionReason, statusStrings(from))
	r, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("transition reservation: %w", err)
	}
	return r, nil
}

func (p *PGReservationRepository) MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error) {
	rows, err := p.db.Query(ctx, `UPDATE reservations r SET status=$1, updated_at=now()
		FROM venues v, users u
		WHERE r.status = ANY($2)
			AND r.reservation_date + r.reservation_time < $3
			AND v.id = r.venue_id AND u.id = r.user_id
		RETURNING `+reservationColumns,
		domain.StatusNoShow.String(), statusStrings(domain.ActiveStatuses()), deadline)
	if err != nil {
		return nil, fmt.Errorf("mark no-shows: %w", err)
	}
	defer rows.Close()

	var marked []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		marked = append(marked, *r)
	}
	return marked, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var r domain.Reservation
	var t pgtype.Time
	var special, reason *string
	if err := row.Scan(&r.ID, &r.UserID, &r.VenueID, &r.Date, &t,
		&r.PartySize, &r.Status, &special, &reason,
		&r.ArrivedAt, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
		&r.VenueName, &r.UserName); err != nil {
		return nil, err
	}
	r.Time = domain.TimeOfDayFromMicroseconds(t.Microseconds)
	if special != nil {
		r.SpecialRequests = *special
	}
	if reason != nil {
		r.RejectionReason = *reason
	}
	return &r, nil
}

func timeParam(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
