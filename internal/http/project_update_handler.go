package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/repository"
	"buildshare/internal/service"
)

// ProjectUpdateHandler publica updates de proyecto y dispara el fan-out de
// notificaciones a quienes guardaron el proyecto.
type ProjectUpdateHandler struct {
	logger   *zap.Logger
	projects repository.ProjectRepository
	updates  repository.ProjectUpdateRepository
	notifier *service.Notifier
}

// NewProjectUpdateHandler crea una instancia de ProjectUpdateHandler.
func NewProjectUpdateHandler(
	logger *zap.Logger,
	projects repository.ProjectRepository,
	updates repository.ProjectUpdateRepository,
	notifier *service.Notifier,
) *ProjectUpdateHandler {
	return &ProjectUpdateHandler{
		logger:   logger,
		projects: projects,
		updates:  updates,
		notifier: notifier,
	}
}

// Create maneja POST /projects/:id/updates. Solo el dueno del proyecto
// puede publicar; el fan-out excluye al autor y nunca falla el request.
func (h *ProjectUpdateHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title      string `json:"title" binding:"required"`
		Content    string `json:"content" binding:"required"`
		Version    string `json:"version"`
		UpdateType string `json:"update_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid project update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updateType := strings.ToLower(strings.TrimSpace(req.UpdateType))
	if updateType == "" {
		updateType = domain.UpdateTypeAnnouncement
	}
	switch updateType {
	case domain.UpdateTypeFeature, domain.UpdateTypeBugfix, domain.UpdateTypeImprovement, domain.UpdateTypeAnnouncement:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update type"})
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("load project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load project"})
		return
	}

	if project.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only project owner can post updates"})
		return
	}

	update := domain.ProjectUpdate{
		ID:         uuid.NewString(),
		ProjectID:  project.ID,
		UserID:     claims.UserID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Version:    strings.TrimSpace(req.Version),
		UpdateType: updateType,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.updates.Create(c.Request.Context(), update); err != nil {
		h.logger.Error("create project update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create update"})
		return
	}

	h.notifier.FanOutProjectUpdate(project, update.Title, claims.UserID)

	c.JSON(http.StatusCreated, gin.H{"update": update})
}

// List maneja GET /projects/:id/updates.
func (h *ProjectUpdateHandler) List(c *gin.Context) {
	updates, err := h.updates.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("list project updates failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list updates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updates": updates})
}
