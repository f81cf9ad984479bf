package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/repository"
)

const (
	notifierQueueSize    = 256
	notifierWriteTimeout = 5 * time.Second
)

// Notifier crea notificaciones fuera del camino critico del request que las
// dispara: Notify encola y un worker persiste. Un fallo del almacen de
// notificaciones solo se loguea, nunca llega al emisor.
type Notifier struct {
	logger *zap.Logger
	repo   repository.NotificationRepository
	queue  chan domain.Notification
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewNotifier(logger *zap.Logger, repo repository.NotificationRepository) *Notifier {
	n := &Notifier{
		logger: logger,
		repo:   repo,
		queue:  make(chan domain.Notification, notifierQueueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify encola una notificacion. Con la cola llena se descarta y loguea:
// el envio del mensaje no debe esperar al almacen de notificaciones.
func (n *Notifier) Notify(userID, notifType, message, relatedProject, relatedUser string) {
	if userID == "" || !domain.ValidNotificationType(notifType) {
		n.logger.Warn("notification dropped: invalid input",
			zap.String("user_id", userID),
			zap.String("type", notifType),
		)
		return
	}

	notif := domain.Notification{
		ID:             uuid.NewString(),
		UserID:         userID,
		Type:           notifType,
		Message:        message,
		RelatedProject: relatedProject,
		RelatedUser:    relatedUser,
		CreatedAt:      time.Now().UTC(),
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Warn("notification dropped: notifier closed",
			zap.String("user_id", userID),
			zap.String("type", notifType),
		)
		return
	}

	select {
	case n.queue <- notif:
	default:
		n.logger.Warn("notification dropped: queue full",
			zap.String("user_id", userID),
			zap.String("type", notifType),
		)
	}
}

// FanOutProjectUpdate notifica a cada usuario que guardo el proyecto,
// excluyendo al autor del update.
func (n *Notifier) FanOutProjectUpdate(project domain.Project, updateTitle, actorID string) {
	for _, userID := range project.Saves {
		if userID == actorID {
			continue
		}
		n.Notify(
			userID,
			domain.NotificationUpdate,
			fmt.Sprintf("%s has a new update: %s", project.Title, updateTitle),
			project.ID,
			actorID,
		)
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	for notif := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), notifierWriteTimeout)
		err := n.repo.Create(ctx, notif)
		cancel()
		if err != nil {
			n.logger.Error("create notification failed",
				zap.Error(err),
				zap.String("user_id", notif.UserID),
				zap.String("type", notif.Type),
			)
		}
	}
}

// Close drena la cola y espera a que el worker termine. Idempotente;
// un Notify posterior descarta la notificacion en vez de entrar en panico.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}
