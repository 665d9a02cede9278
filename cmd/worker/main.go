package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/zvrva/tablebooking/config"
	"github.com/zvrva/tablebooking/internal/email"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	reservationRepo := repository.NewReservationRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	reservationService := reservation.NewService(
		reservationRepo,
		venueRepo,
		nil,
		producer,
		cfg.Kafka.EventsTopic,
		time.Duration(cfg.Reservation.ArrivalEarlyMinutes)*time.Minute,
		time.Duration(cfg.Reservation.ArrivalLateMinutes)*time.Minute,
		time.Duration(cfg.Reservation.NoShowGraceMinutes)*time.Minute,
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.ReservationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.NoShowSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			marked, err := reservationService.MarkNoShows(ctx)
			if err != nil {
				log.Printf("no-show sweep error: %v", err)
				continue
			}
			if len(marked) > 0 {
				log.Printf("marked %d reservations as no-show", len(marked))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
