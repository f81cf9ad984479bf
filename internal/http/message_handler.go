package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/service"
)

// MessageHandler mantiene dependencias para endpoints de mensajeria.
type MessageHandler struct {
	logger        *zap.Logger
	messageServ   *service.MessageService
	conversations *service.ConversationService
}

// NewMessageHandler crea una instancia de MessageHandler con dependencias necesarias.
func NewMessageHandler(logger *zap.Logger, messageServ *service.MessageService, conversations *service.ConversationService) *MessageHandler {
	return &MessageHandler{
		logger:        logger,
		messageServ:   messageServ,
		conversations: conversations,
	}
}

// ListConversations maneja GET /conversations.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	summaries, err := h.conversations.Summaries(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// GetConversation maneja GET /conversations/:conversationId. Devuelve el
// historial ascendente y marca como leidos los mensajes del usuario.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	conversationID := c.Param("conversationId")
	page, err := parseMessagePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}

	messages, err := h.messageServ.GetConversation(c.Request.Context(), conversationID, claims.UserID, page)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		default:
			h.logger.Error("get conversation failed", zap.Error(err), zap.String("conversation_id", conversationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage maneja POST /messages.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Content     string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.messageServ.Send(c.Request.Context(), claims.UserID, req.RecipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message content is empty"})
		case errors.Is(err, service.ErrSelfConversation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		case errors.Is(err, service.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		default:
			h.logger.Error("send message failed", zap.Error(err), zap.String("sender_id", claims.UserID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// parseMessagePage lee el cursor opcional ?before=RFC3339&limit=N.
func parseMessagePage(c *gin.Context) (domain.MessagePage, error) {
	var page domain.MessagePage

	if before := c.Query("before"); before != "" {
		t, err := time.Parse(time.RFC3339Nano, before)
		if err != nil {
			return domain.MessagePage{}, err
		}
		page.Before = t
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return domain.MessagePage{}, errors.New("invalid limit")
		}
		page.Limit = n
	}
	return page, nil
}
