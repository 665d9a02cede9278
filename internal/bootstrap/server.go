package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/tablebooking/api"
	"github.com/zvrva/tablebooking/config"
	"github.com/zvrva/tablebooking/internal/service/reservation"
)

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, reservationSvc reservation.ReservationUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, reservationSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine. Availability and kiosk check-in stay
// public; everything touching a caller's reservations sits behind the JWT
// middleware.
func NewRouter(cfg *config.Config, reservationSvc reservation.ReservationUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID())

	api.NewAvailabilityHandler(reservationSvc).Register(router.Group("/venues"))
	api.NewArrivalHandler(reservationSvc).Register(router.Group("/arrivals"))

	authed := router.Group("/reservations", api.Auth(cfg.JWT.Secret))
	api.NewReservationHandler(reservationSvc).Register(authed)

	return router
}
