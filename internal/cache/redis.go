package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/tablebooking/config"
	"github.com/zvrva/tablebooking/internal/domain"
)

type RedisCache struct {
	client          *redis.Client
	venueTTL        time.Duration
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, venueTTL, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		venueTTL:        venueTTL,
		availabilityTTL: availabilityTTL,
	}
}

func (c *RedisCache) GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error) {
	data, err := c.client.Get(ctx, venueKey(venueID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var venue domain.Venue
	if err := json.Unmarshal(data, &venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (c *RedisCache) SetVenue(ctx context.Context, venue *domain.Venue) error {
	payload, err := json.Marshal(venue)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, venueKey(venue.ID), payload, c.venueTTL).Err()
}

// GetAvailableTimes returns the cached slot list for a venue-day, or
// (nil, false, nil) on a miss. An empty cached list is a valid hit.
func (c *RedisCache) GetAvailableTimes(ctx context.Context, venueID int64, date time.Time) ([]domain.TimeOfDay, bool, error) {
	data, err := c.client.Get(ctx, availabilityKey(venueID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var times []domain.TimeOfDay
	if err := json.Unmarshal(data, &times); err != nil {
		return nil, false, err
	}
	return times, true, nil
}

func (c *RedisCache) SetAvailableTimes(ctx context.Context, venueID int64, date time.Time, times []domain.TimeOfDay) error {
	payload, err := json.Marshal(times)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(venueID, date), payload, c.availabilityTTL).Err()
}

// InvalidateAvailability drops the venue-day entry after any booking or
// status change that affects which slots are free.
func (c *RedisCache) InvalidateAvailability(ctx context.Context, venueID int64, date time.Time) error {
	return c.client.Del(ctx, availabilityKey(venueID, date)).Err()
}

func venueKey(venueID int64) string {
	return fmt.Sprintf("cache:venue:%d", venueID)
}

func availabilityKey(venueID int64, date time.Time) string {
	return fmt.Sprintf("cache:availability:%d:%s", venueID, date.Format("2006-01-02"))
}
