package repository

import (
	"context"

	"github.com/adityarane/GymBuddyBack/internal/models"
)

type CreateNotificationInput struct {
	UserID       int64
	Type         string
	Message      string
	RelatedID    int64
	RelatedModel string
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
		INSERT INTO notifications (user_id, type, message, related_id, related_model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, type, message, related_id, related_model, read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(ctx, query,
		input.UserID, input.Type, input.Message, input.RelatedID, input.RelatedModel,
	).Scan(
		&notification.ID, &notification.UserID, &notification.Type, &notification.Message,
		&notification.RelatedID, &notification.RelatedModel, &notification.Read, &notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListForUser(
	ctx context.Context,
	userID int64,
	unreadOnly bool,
	limit int,
) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, message, related_id, related_model, read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID, &notification.UserID, &notification.Type, &notification.Message,
			&notification.RelatedID, &notification.RelatedModel, &notification.Read, &notification.CreatedAt,
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

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	return err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}
