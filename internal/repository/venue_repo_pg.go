package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/tablebooking/internal/domain"
)

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
}

type PGVenueRepository struct {
	db *pgxpool.Pool
}

func NewVenueRepository(db *pgxpool.Pool) VenueRepository {
	return &PGVenueRepository{db: db}
}

func (p *PGVenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var v domain.Venue
	var openTime, closeTime pgtype.Time
	err := p.db.QueryRow(ctx, `SELECT id, name, operator_id, active,
			open_time, close_time, interval_minutes, look_ahead_days,
			created_at, updated_at
		FROM venues WHERE id=$1`, id).
		Scan(&v.ID, &v.Name, &v.OperatorID, &v.Active,
			&openTime, &closeTime, &v.IntervalMinutes, &v.LookAheadDays,
			&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	v.OpenTime = domain.TimeOfDayFromMicroseconds(openTime.Microseconds)
	v.CloseTime = domain.TimeOfDayFromMicroseconds(closeTime.Microseconds)
	return &v, nil
}

var _ VenueRepository = (*PGVenueRepository)(nil)
