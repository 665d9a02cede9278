package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/tablebooking/config"
	"github.com/zvrva/tablebooking/internal/bootstrap"
	"github.com/zvrva/tablebooking/internal/cache"
	"github.com/zvrva/tablebooking/internal/kafka"
	"github.com/zvrva/tablebooking/internal/repository"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Reservation.VenueCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Reservation.AvailabilityTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	reservationRepo := repository.NewReservationRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	reservationService := reservation.NewService(
		reservationRepo,
		venueRepo,
		redisCache,
		producer,
		cfg.Kafka.EventsTopic,
		time.Duration(cfg.Reservation.ArrivalEarlyMinutes)*time.Minute,
		time.Duration(cfg.Reservation.ArrivalLateMinutes)*time.Minute,
		time.Duration(cfg.Reservation.NoShowGraceMinutes)*time.Minute,
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, reservationService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
