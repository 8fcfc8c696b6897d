package mailer

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/redisx"
	"github.com/mobilemart/storefront/internal/users"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeDirectory struct {
	byID map[string]users.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func newTestService() (*Service, *fakeSender) {
	sender := &fakeSender{}
	svc := &Service{
		Sender: sender,
		// unreachable; dedup degrades to always-send, which is fine here
		Redis: redisx.New("127.0.0.1:1"),
		Users: &fakeDirectory{byID: map[string]users.User{
			"u1": {ID: "u1", Name: "Asha", Email: "asha@example.com"},
		}},
		ServiceName: "mailer-test",
	}
	return svc, sender
}

func eventMessage(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := kafkax.NewEnvelope(eventType, "test", "", "", payload)
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandlePasswordResetEvent(t *testing.T) {
	svc, sender := newTestService()

	msg := eventMessage(t, users.EventPasswordResetRequested, users.PasswordResetRequestedPayload{
		UserID:   "u1",
		Email:    "asha@example.com",
		Name:     "Asha",
		ResetURL: "http://localhost:8080/api/reset-password/tok123",
	})
	require.NoError(t, svc.HandleEvent(context.Background(), msg))

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, "asha@example.com", m.to)
	assert.Contains(t, m.subject, "Password Reset")
	assert.Contains(t, m.body, "http://localhost:8080/api/reset-password/tok123")
	assert.Contains(t, m.body, "Asha")
}

func TestHandleOrderPlacedEvent(t *testing.T) {
	svc, sender := newTestService()

	msg := eventMessage(t, orders.EventOrderPlaced, orders.OrderPlacedPayload{
		OrderID: "ord-1",
		UserID:  "u1",
		Items: []orders.LineItem{
			{ProductID: "p1", Name: "Pixel 9", UnitCents: 79900, Quantity: 2},
		},
		TotalCents: 159800,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), msg))

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, "asha@example.com", m.to)
	assert.Contains(t, m.subject, "ord-1")
	assert.Contains(t, m.body, "2x Pixel 9")
	assert.Contains(t, m.body, "1598.00")
}

func TestHandleOrderPlacedRecipientGone(t *testing.T) {
	svc, sender := newTestService()

	msg := eventMessage(t, orders.EventOrderPlaced, orders.OrderPlacedPayload{
		OrderID:    "ord-2",
		UserID:     "deleted-user",
		TotalCents: 100,
	})
	// not an error: the message must still be committed
	require.NoError(t, svc.HandleEvent(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestHandleUnknownEventType(t *testing.T) {
	svc, sender := newTestService()

	msg := eventMessage(t, "inventory.restocked", map[string]string{"productId": "p1"})
	require.NoError(t, svc.HandleEvent(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestHandleMalformedMessage(t *testing.T) {
	svc, sender := newTestService()

	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}
