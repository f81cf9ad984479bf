package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"buildshare/internal/repository"
)

const notificationListLimit = 50

// NotificationHandler mantiene dependencias para endpoints de notificaciones.
type NotificationHandler struct {
	logger        *zap.Logger
	notifications repository.NotificationRepository
}

// NewNotificationHandler crea una instancia de NotificationHandler.
func NewNotificationHandler(logger *zap.Logger, notifications repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		logger:        logger,
		notifications: notifications,
	}
}

// List maneja GET /notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	notifications, err := h.notifications.ListByUser(c.Request.Context(), claims.UserID, notificationListLimit)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead maneja PUT /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("mark notification read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// MarkAllRead maneja PUT /notifications/read-all. Idempotente.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Error("mark all notifications read failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
