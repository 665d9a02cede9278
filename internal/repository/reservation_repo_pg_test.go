package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/zvrva/tablebooking/internal/domain"
)

func TestNewReservationRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewReservationRepository(pool)
	assert.NotNil(t, repo)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"PENDING", "CONFIRMED"}, statusStrings(domain.ActiveStatuses()))
	assert.Equal(t, []string{"PENDING", "CONFIRMED", "ARRIVED", "COMPLETED"}, statusStrings(domain.BlockingStatuses()))
	assert.Empty(t, statusStrings(nil))
}

func TestTimeParam(t *testing.T) {
	p := timeParam(domain.NewTimeOfDay(18, 30))
	assert.True(t, p.Valid)
	assert.Equal(t, domain.NewTimeOfDay(18, 30), domain.TimeOfDayFromMicroseconds(p.Microseconds))
}
