package ws

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type relayed struct {
	conversationID string
	payload        []byte
}

func setupRelay(t *testing.T, mr *miniredis.Miniredis) (*RedisRelay, chan relayed) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	received := make(chan relayed, 8)
	relay := NewRedisRelay(zap.NewNop(), client, func(conversationID string, payload []byte) {
		received <- relayed{conversationID: conversationID, payload: payload}
	})
	t.Cleanup(func() {
		relay.Close()
		client.Close()
	})
	return relay, received
}

func TestRedisRelay_DeliversToOtherInstances(t *testing.T) {
	mr := miniredis.RunT(t)

	relayA, receivedA := setupRelay(t, mr)
	_, receivedB := setupRelay(t, mr)

	// La suscripcion corre en una goroutine; darle un instante.
	time.Sleep(50 * time.Millisecond)

	payload := []byte(`{"event":"new-message"}`)
	if err := relayA.Publish(context.Background(), "a_b", payload); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-receivedB:
		if got.conversationID != "a_b" {
			t.Fatalf("expected conversation a_b, got %q", got.conversationID)
		}
		if !bytes.Equal(got.payload, payload) {
			t.Fatalf("payload mismatch: %s", got.payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for relayed message")
	}

	// La instancia que publica ignora su propio eco.
	select {
	case got := <-receivedA:
		t.Fatalf("publisher must skip its own message, got %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
