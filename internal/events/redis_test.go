package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPublisher(t *testing.T) (*RedisPublisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPublisher(client, zap.NewNop()), client
}

func TestRedisPublisherAppendsToStream(t *testing.T) {
	pub, client := newTestPublisher(t)
	ctx := context.Background()

	payload := map[string]string{"invoiceNumber": "INV-1"}
	require.NoError(t, pub.Publish(ctx, EventInvoiceCreated, payload))
	require.NoError(t, pub.Publish(ctx, EventInvoiceStatusChanged, payload))

	entries, err := client.XRange(ctx, StreamInvoices, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, EventInvoiceCreated, entries[0].Values["event_type"])
	assert.Equal(t, EventInvoiceStatusChanged, entries[1].Values["event_type"])

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["payload"].(string)), &decoded))
	assert.Equal(t, "INV-1", decoded["invoiceNumber"])
}

func TestRedisPublisherRejectsUnmarshalablePayload(t *testing.T) {
	pub, _ := newTestPublisher(t)
	err := pub.Publish(context.Background(), EventInvoiceCreated, make(chan int))
	require.Error(t, err)
}

func TestNewPublisherFallsBackToLog(t *testing.T) {
	pub := NewPublisher(nil, zap.NewNop())
	_, isLog := pub.(*LogPublisher)
	assert.True(t, isLog)
	assert.NoError(t, pub.Publish(context.Background(), EventInvoiceCreated, nil))
}

func TestNewPublisherUsesRedisWhenAvailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	pub := NewPublisher(client, zap.NewNop())
	_, isRedis := pub.(*RedisPublisher)
	assert.True(t, isRedis)
}
