package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"buildshare/internal/service"
)

// Handler atiende el upgrade websocket en GET /ws.
type Handler struct {
	logger   *zap.Logger
	hub      *Hub
	jwtServ  *service.JWTService
	upgrader websocket.Upgrader
}

func NewHandler(logger *zap.Logger, hub *Hub, jwtServ *service.JWTService) *Handler {
	return &Handler{
		logger:  logger,
		hub:     hub,
		jwtServ: jwtServ,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve autentica al cliente (query ?token= o header Authorization) y
// arranca las bombas de lectura/escritura de la conexion.
func (h *Handler) Serve(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token = service.BearerToken(c.GetHeader("Authorization"))
	}

	claims, err := h.jwtServ.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h.hub, conn, claims.UserID)
	go client.writePump()
	go client.readPump()
}
