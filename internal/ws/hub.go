package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"buildshare/internal/domain"
)

// Eventos del protocolo en tiempo real.
const (
	EventJoinConversation  = "join-conversation"
	EventLeaveConversation = "leave-conversation"
	EventNewMessage        = "new-message"
	EventError             = "error"
)

// ClientEvent es el sobre que envian los clientes conectados.
type ClientEvent struct {
	Event          string `json:"event"`
	ConversationID string `json:"conversation_id"`
}

// ServerEvent es el sobre que emite el servidor.
type ServerEvent struct {
	Event   string          `json:"event"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub mantiene el registro de conexiones por canal de conversacion. La
// membresia vive en memoria del proceso; el Relay opcional reenvia los
// broadcasts a otras instancias.
type Hub struct {
	logger *zap.Logger
	relay  Relay

	mu            sync.RWMutex
	conversations map[string]map[*Client]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:        logger,
		conversations: make(map[string]map[*Client]struct{}),
	}
}

// UseRelay engancha el relay externo y empieza a consumir los broadcasts
// publicados por otras instancias.
func (h *Hub) UseRelay(relay Relay) {
	h.relay = relay
}

// Join suscribe la conexion al canal de la conversacion. El llamador ya
// valido que el usuario es participante. Una conexion ya dada de baja no
// puede reincorporarse: su canal de salida esta cerrado.
func (h *Hub) Join(c *Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	if h.conversations[conversationID] == nil {
		h.conversations[conversationID] = make(map[*Client]struct{})
	}
	h.conversations[conversationID][c] = struct{}{}
	c.joined[conversationID] = struct{}{}

	h.logger.Info("client joined conversation",
		zap.String("user_id", c.userID),
		zap.String("conversation_id", conversationID),
	)
}

// Leave saca la conexion del canal; sin efecto si no estaba suscrita.
func (h *Hub) Leave(c *Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, conversationID)
}

func (h *Hub) removeLocked(c *Client, conversationID string) {
	if members, ok := h.conversations[conversationID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.conversations, conversationID)
		}
	}
	delete(c.joined, conversationID)
}

// Unregister limpia todas las suscripciones de la conexion y cierra su
// canal de salida.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conversationID := range c.joined {
		h.removeLocked(c, conversationID)
	}
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// NewMessage publica un mensaje recien persistido a todos los suscriptores
// del canal de su conversacion, local y via relay. Entrega at-most-once:
// los no conectados dependen del proximo fetch.
func (h *Hub) NewMessage(msg domain.Message) {
	data, err := json.Marshal(ServerEvent{Event: EventNewMessage, Message: &msg})
	if err != nil {
		h.logger.Error("marshal new-message event", zap.Error(err))
		return
	}

	h.DeliverLocal(msg.ConversationID, data)

	if h.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.relay.Publish(ctx, msg.ConversationID, data); err != nil {
			h.logger.Warn("relay publish failed", zap.Error(err))
		}
	}
}

// DeliverLocal reparte el payload a las conexiones locales del canal. Un
// consumidor con el buffer lleno se desconecta en vez de bloquear al resto.
func (h *Hub) DeliverLocal(conversationID string, data []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.conversations[conversationID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("client send buffer full, dropping connection",
			zap.String("user_id", c.userID),
		)
		h.Unregister(c)
	}
}

// MemberCount devuelve cuantas conexiones estan suscritas al canal.
func (h *Hub) MemberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations[conversationID])
}
