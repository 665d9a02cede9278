package reservation

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/tablebooking/internal/domain"
	"github.com/zvrva/tablebooking/internal/repository"
)

// memStore is an in-memory ReservationRepository whose Create enforces the
// same active-slot uniqueness the database index does, under a single mutex.
// It lets the double-booking property be exercised with real goroutines.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Reservation
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]*domain.Reservation)}
}

func (m *memStore) Create(ctx context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.VenueID == r.VenueID && row.SameDate(r.Date) && row.Time == r.Time &&
			(row.Status == domain.StatusPending || row.Status == domain.StatusConfirmed) {
			return domain.ErrSlotTaken
		}
	}
	m.nextID++
	r.ID = m.nextID
	clone := *r
	m.rows[r.ID] = &clone
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	clone := *row
	return &clone, nil
}

func (m *memStore) BookedTimes(ctx context.Context, venueID int64, date time.Time, statuses []domain.ReservationStatus) ([]domain.TimeOfDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var times []domain.TimeOfDay
	for _, row := range m.rows {
		if row.VenueID != venueID || !row.SameDate(date) {
			continue
		}
		for _, s := range statuses {
			if row.Status == s {
				times = append(times, row.Time)
				break
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

func (m *memStore) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, row := range m.rows {
		if f.UserID != nil && row.UserID != *f.UserID {
			continue
		}
		if f.VenueID != nil && row.VenueID != *f.VenueID {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (m *memStore) Transition(ctx context.Context, id int64, from []domain.ReservationStatus, to domain.ReservationStatus, stamps repository.TransitionStamps) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	matched := false
	for _, s := range from {
		if row.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return nil, domain.ErrReservationNotFound
	}
	row.Status = to
	if stamps.ArrivedAt != nil {
		row.ArrivedAt = stamps.ArrivedAt
	}
	if stamps.CompletedAt != nil {
		row.CompletedAt = stamps.CompletedAt
	}
	if stamps.RejectionReason != nil {
		row.RejectionReason = *stamps.RejectionReason
	}
	clone := *row
	return &clone, nil
}

func (m *memStore) MarkNoShowsBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var marked []domain.Reservation
	for _, row := range m.rows {
		if row.Status != domain.StatusPending && row.Status != domain.StatusConfirmed {
			continue
		}
		if row.Time.On(row.Date).Before(deadline) {
			row.Status = domain.StatusNoShow
			marked = append(marked, *row)
		}
	}
	return marked, nil
}

var _ repository.ReservationRepository = (*memStore)(nil)

func TestCreate_ConcurrentRequestsBookExactlyOne(t *testing.T) {
	store := newMemStore()
	venues := &MockVenueRepository{}
	venues.On("GetByID", mock.Anything, int64(1)).Return(testVenue(), nil)
	service := newTestService(store, venues)

	ctx := context.Background()
	input := CreateInput{
		VenueID:   1,
		Date:      testNow.AddDate(0, 0, 1),
		Time:      domain.NewTimeOfDay(19, 0),
		PartySize: 2,
	}

	const attempts = 16
	var created, conflicted int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			<-start
			_, err := service.Create(ctx, domain.Actor{ID: userID, Role: domain.RoleUser}, input)
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case domain.IsCode(err, domain.CodeConflict):
				atomic.AddInt32(&conflicted, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), created)
	assert.Equal(t, int32(attempts-1), conflicted)
}

func TestRejectedSlotOpensUpAgain(t *testing.T) {
	store := newMemStore()
	venues := &MockVenueRepository{}
	venues.On("GetByID", mock.Anything, int64(1)).Return(testVenue(), nil)
	service := newTestService(store, venues)

	ctx := context.Background()
	user := domain.Actor{ID: 5, Role: domain.RoleUser}
	operator := domain.Actor{ID: 77, Role: domain.RoleOperator}
	date := testNow.AddDate(0, 0, 1)
	slot := domain.NewTimeOfDay(19, 0)
	input := CreateInput{VenueID: 1, Date: date, Time: slot, PartySize: 2}

	r, err := service.Create(ctx, user, input)
	assert.NoError(t, err)

	times, err := service.AvailableTimes(ctx, 1, date)
	assert.NoError(t, err)
	assert.NotContains(t, times, slot)

	rejected, err := service.ProcessApproval(ctx, operator, r.ID, false, "")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, DefaultRejectionReason, rejected.RejectionReason)

	times, err = service.AvailableTimes(ctx, 1, date)
	assert.NoError(t, err)
	assert.Contains(t, times, slot)

	// The freed slot is bookable again.
	_, err = service.Create(ctx, domain.Actor{ID: 6, Role: domain.RoleUser}, input)
	assert.NoError(t, err)
}
