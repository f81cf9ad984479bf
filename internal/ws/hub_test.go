package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/service"
)

func testClient(hub *Hub, userID string) *Client {
	return newClient(hub, nil, userID)
}

func recvEvent(t *testing.T, c *Client) ServerEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var event ServerEvent
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("invalid server event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ServerEvent{}
	}
}

func TestHub_BroadcastReachesConversationMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conv, _ := service.ConversationID("u1", "u2")

	c1 := testClient(hub, "u1")
	c2 := testClient(hub, "u2")
	outsider := testClient(hub, "u3")
	hub.Join(c1, conv)
	hub.Join(c2, conv)

	msg := domain.Message{ID: "m1", SenderID: "u1", RecipientID: "u2", Content: "hola", ConversationID: conv}
	hub.NewMessage(msg)

	for _, c := range []*Client{c1, c2} {
		event := recvEvent(t, c)
		if event.Event != EventNewMessage {
			t.Fatalf("expected new-message, got %q", event.Event)
		}
		if event.Message == nil || event.Message.ID != "m1" {
			t.Fatalf("unexpected payload %+v", event.Message)
		}
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider must not receive the broadcast")
	default:
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conv, _ := service.ConversationID("u1", "u2")

	c1 := testClient(hub, "u1")
	hub.Join(c1, conv)
	hub.Leave(c1, conv)

	hub.NewMessage(domain.Message{ID: "m1", ConversationID: conv})

	select {
	case <-c1.send:
		t.Fatal("client left the channel, must not receive")
	default:
	}
	if hub.MemberCount(conv) != 0 {
		t.Fatalf("expected empty channel, got %d members", hub.MemberCount(conv))
	}
}

func TestHub_UnregisterCleansAllChannels(t *testing.T) {
	hub := NewHub(zap.NewNop())
	convA, _ := service.ConversationID("u1", "u2")
	convB, _ := service.ConversationID("u1", "u3")

	c1 := testClient(hub, "u1")
	hub.Join(c1, convA)
	hub.Join(c1, convB)
	hub.Unregister(c1)

	if hub.MemberCount(convA) != 0 || hub.MemberCount(convB) != 0 {
		t.Fatal("expected all memberships removed")
	}
	if _, ok := <-c1.send; ok {
		t.Fatal("expected send channel closed")
	}
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conv, _ := service.ConversationID("u1", "u2")

	c1 := testClient(hub, "u1")
	hub.Join(c1, conv)

	// Llenar el buffer sin consumir; el siguiente broadcast desconecta.
	for i := 0; i <= sendBufferSize; i++ {
		hub.DeliverLocal(conv, []byte("x"))
	}

	if hub.MemberCount(conv) != 0 {
		t.Fatalf("expected slow client dropped, got %d members", hub.MemberCount(conv))
	}
}

func TestHub_JoinAfterUnregisterIsRefused(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conv, _ := service.ConversationID("u1", "u2")

	c1 := testClient(hub, "u1")
	hub.Join(c1, conv)
	hub.Unregister(c1)

	// La bomba de lectura puede procesar un join encolado despues de la
	// baja; no debe reinsertar una conexion con el canal cerrado.
	hub.Join(c1, conv)
	if hub.MemberCount(conv) != 0 {
		t.Fatalf("expected unregistered client kept out, got %d members", hub.MemberCount(conv))
	}
	hub.DeliverLocal(conv, []byte("x"))
}

func TestClient_JoinRequiresMembership(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conv, _ := service.ConversationID("u1", "u2")

	intruder := testClient(hub, "u9")
	data, _ := json.Marshal(ClientEvent{Event: EventJoinConversation, ConversationID: conv})
	intruder.handleEvent(data)

	if hub.MemberCount(conv) != 0 {
		t.Fatal("non-participant join must be refused")
	}
	event := recvEvent(t, intruder)
	if event.Event != EventError || event.Error == "" {
		t.Fatalf("expected error event, got %+v", event)
	}

	member := testClient(hub, "u2")
	member.handleEvent(data)
	if hub.MemberCount(conv) != 1 {
		t.Fatal("participant join must be honored")
	}
}

func TestClient_UnknownEvent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := testClient(hub, "u1")

	c.handleEvent([]byte(`{"event":"typing"}`))
	event := recvEvent(t, c)
	if event.Event != EventError {
		t.Fatalf("expected error event, got %+v", event)
	}

	c.handleEvent([]byte(`not json`))
	event = recvEvent(t, c)
	if event.Event != EventError {
		t.Fatalf("expected error event for invalid json, got %+v", event)
	}
}
