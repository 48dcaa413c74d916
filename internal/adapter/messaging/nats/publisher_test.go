package nats

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := newMessage(context.Background(), "listing.created", map[string]interface{}{"id": "l1", "name": "Lakeview"})
	require.NoError(t, err)

	assert.Equal(t, "listing.created", msg.Subject)
	assert.NotEmpty(t, msg.Header.Get(nats.MsgIdHdr))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, "l1", body["id"])
	assert.Equal(t, "Lakeview", body["name"])
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a, err := newMessage(context.Background(), "listing.deleted", map[string]string{"id": "l1"})
	require.NoError(t, err)
	b, err := newMessage(context.Background(), "listing.deleted", map[string]string{"id": "l1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Header.Get(nats.MsgIdHdr), b.Header.Get(nats.MsgIdHdr))
}

func TestNewMessage_Unmarshalable(t *testing.T) {
	_, err := newMessage(context.Background(), "listing.updated", math.Inf(1))
	assert.Error(t, err)
}

func TestHeaderCarrier(t *testing.T) {
	h := nats.Header{}
	c := HeaderCarrier(h)
	c.Set("traceparent", "00-abc-def-01")

	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.Equal(t, []string{"traceparent"}, c.Keys())
}
