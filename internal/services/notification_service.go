package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
	notifyws "github.com/sohail-1209/learnx/internal/websocket"
)

// NotificationService persists notifications and pushes them to any
// live websocket connections the recipient holds.
type NotificationService struct {
	db  *pgxpool.Pool
	hub *notifyws.Hub
	log *logrus.Logger
}

func NewNotificationService(db *pgxpool.Pool, hub *notifyws.Hub, log *logrus.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, log: log}
}

// Notify is best effort. A failed notification is logged and dropped;
// it never fails the operation that triggered it.
func (s *NotificationService) Notify(ctx context.Context, input repository.CreateNotificationInput) {
	notification, err := repository.NewNotificationRepository(s.db).Create(ctx, input)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": input.UserID,
			"type":    input.Type,
		}).Error("failed to create notification")
		return
	}

	if s.hub != nil {
		s.hub.Push(notification.UserID, notification)
	}
}

func (s *NotificationService) List(
	ctx context.Context,
	userID int64,
	page int,
	limit int,
) ([]models.Notification, error) {
	return repository.NewNotificationRepository(s.db).ListByUser(ctx, userID, limit, (page-1)*limit)
}

// MarkRead marks the notification read, refusing to touch rows owned
// by other users.
func (s *NotificationService) MarkRead(
	ctx context.Context,
	userID int64,
	notificationID int64,
) (*models.Notification, error) {
	notification, err := repository.NewNotificationRepository(s.db).MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return notification, nil
}
