package email

import (
	"context"
	"fmt"

	"github.com/zvrva/tablebooking/internal/kafka"
)

// Sender is a stand-in notification channel: it logs what a real mailer
// would deliver. The worker hands it every consumed reservation event.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	msg := event.Message
	if msg == "" {
		msg = event.Type
	}
	fmt.Printf("notify user %d about reservation %d at %s (%s %s): %s\n",
		event.UserID, event.ReservationID, event.VenueName, event.Date, event.Time, msg)
	return nil
}
