package repositories

import (
	"context"

	"github.com/simlok-project/backend/internal/models"
)

// NotificationRepository persists in-app notification rows. The dashboard
// reads them through its own query path; this service only writes.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
        VALUES ($1,$2,$3,$4,false,NOW())
    `, n.ID, n.UserID, n.Title, n.Message)
	return err
}

