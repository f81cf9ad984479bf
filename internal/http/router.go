package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildshare/internal/service"
	"buildshare/internal/ws"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	userH *UserHandler,
	msgH *MessageHandler,
	notifH *NotificationHandler,
	projH *ProjectUpdateHandler,
	wsH *ws.Handler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.GET("/me", JWTAuthMiddleware(jwtServ), userH.Me)

	authed := r.Group("/", JWTAuthMiddleware(jwtServ))
	authed.GET("/conversations", msgH.ListConversations)
	authed.GET("/conversations/:conversationId", msgH.GetConversation)
	authed.POST("/messages", msgH.SendMessage)

	authed.GET("/notifications", notifH.List)
	authed.PUT("/notifications/read-all", notifH.MarkAllRead)
	authed.PUT("/notifications/:id/read", notifH.MarkRead)

	authed.POST("/projects/:id/updates", projH.Create)
	r.GET("/projects/:id/updates", projH.List)

	// El upgrade websocket autentica por si mismo (token en query o header).
	r.GET("/ws", wsH.Serve)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
