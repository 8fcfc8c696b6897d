package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	OrderID string `json:"orderId"`
	Qty     int    `json:"qty"`
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := NewEnvelope("order.placed", "api", "trace-1", "ord-1", testPayload{OrderID: "ord-1", Qty: 2})
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.False(t, env.OccurredAt.IsZero())

	var decoded Envelope
	require.NoError(t, UnmarshalEnvelope(MustMarshal(env), &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, "order.placed", decoded.EventType)
	assert.Equal(t, "ord-1", decoded.CorrelationID)

	p, err := UnwrapPayload[testPayload](decoded.Payload)
	require.NoError(t, err)
	assert.Equal(t, testPayload{OrderID: "ord-1", Qty: 2}, p)
}

func TestUnwrapPayloadBadJSON(t *testing.T) {
	_, err := UnwrapPayload[testPayload]([]byte(`{"qty": "two"}`))
	assert.ErrorContains(t, err, "decode payload")
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a := NewEnvelope("order.placed", "api", "", "", testPayload{})
	b := NewEnvelope("order.placed", "api", "", "", testPayload{})
	assert.NotEqual(t, a.EventID, b.EventID)
}
