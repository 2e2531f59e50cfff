package repository

import (
	"context"

	"github.com/sohail-1209/learnx/internal/models"
)

type CreateNotificationInput struct {
	UserID      int64
	Title       string
	Message     string
	Type        string
	ReferenceID string
}

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(
	ctx context.Context,
	input CreateNotificationInput,
) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, title, message, type, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, message, type, reference_id, is_read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.Title,
		input.Message,
		input.Type,
		input.ReferenceID,
	).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.ReferenceID,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
	offset int,
) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, reference_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.ReferenceID,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flags the notification as read; pgx.ErrNoRows means the
// notification does not exist or belongs to another user.
func (r *NotificationRepository) MarkRead(
	ctx context.Context,
	notificationID int64,
	userID int64,
) (*models.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, message, type, reference_id, is_read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(ctx, query, notificationID, userID).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.ReferenceID,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
