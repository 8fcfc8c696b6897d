package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/redisx"
	"github.com/mobilemart/storefront/internal/users"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserDirectory resolves the recipient for order events; the reset
// event already carries the address. Satisfied by users.Repo.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// Service turns account and order events into transactional email.
// Attached as the handler of the password-reset and order-placed
// consumers.
type Service struct {
	Sender EmailSender
	Redis  *redis.Client
	Users  UserDirectory

	ServiceName string
}

func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env kafkax.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}

	// dedup by event id so redelivery never re-sends mail
	dkey := fmt.Sprintf(redisx.KeyDedup, "mailer", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case users.EventPasswordResetRequested:
		return s.sendPasswordReset(ctx, env)
	case orders.EventOrderPlaced:
		return s.sendOrderConfirmation(ctx, env)
	default:
		return nil
	}
}

func (s *Service) sendPasswordReset(ctx context.Context, env kafkax.Envelope) error {
	p, err := kafkax.UnwrapPayload[users.PasswordResetRequestedPayload](env.Payload)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`Hi %s,

You requested a password reset.

Click the link below to reset your password:

%s

If you did not request this, please ignore this email.
`, p.Name, p.ResetURL)
	return s.Sender.Send(ctx, p.Email, "MobileMart Password Reset", body)
}

func (s *Service) sendOrderConfirmation(ctx context.Context, env kafkax.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		// user deleted between placing and mailing; nothing to deliver
		log.Printf("order %s: recipient lookup: %v", p.OrderID, err)
		return nil
	}

	body := fmt.Sprintf("Hi %s,\n\nThanks for your order %s.\n\n", u.Name, p.OrderID)
	for _, it := range p.Items {
		body += fmt.Sprintf("  %dx %s\n", it.Quantity, it.Name)
	}
	body += fmt.Sprintf("\nTotal: %d.%02d\n\nWe'll email you again when it ships.\n",
		p.TotalCents/100, p.TotalCents%100)
	return s.Sender.Send(ctx, u.Email, "Your MobileMart order "+p.OrderID, body)
}
