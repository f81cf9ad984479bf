package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"buildshare/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client es una conexion websocket autenticada. joined y closed estan
// protegidos por el mutex del hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	joined map[string]struct{}
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		joined: make(map[string]struct{}),
	}
}

// readPump consume eventos del cliente hasta que la conexion cae.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		c.handleEvent(data)
	}
}

// writePump envia los eventos en cola y mantiene vivo el socket con pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEvent despacha un evento del cliente. Unirse a un canal exige que
// la identidad autenticada sea uno de los dos participantes de la
// conversacion nombrada; cualquier otro join se rechaza.
func (c *Client) handleEvent(data []byte) {
	var event ClientEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.sendError("invalid event")
		return
	}

	switch event.Event {
	case EventJoinConversation:
		if !service.IsParticipant(event.ConversationID, c.userID) {
			c.sendError("not a conversation participant")
			return
		}
		c.hub.Join(c, event.ConversationID)
	case EventLeaveConversation:
		c.hub.Leave(c, event.ConversationID)
	default:
		c.sendError("unknown event: " + event.Event)
	}
}

func (c *Client) sendError(msg string) {
	data, err := json.Marshal(ServerEvent{Event: EventError, Error: msg})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
