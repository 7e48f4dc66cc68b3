package db

import (
	"context"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// AdminMessagesRepository keeps the screenshots forwarded to the admin that
// still wait for a decision.
type AdminMessagesRepository struct {
	queue *DBQueue
}

func NewAdminMessagesRepository(queue *DBQueue) *AdminMessagesRepository {
	return &AdminMessagesRepository{queue: queue}
}

func (r *AdminMessagesRepository) Add(ctx context.Context, chatID int64, messageID int, at time.Time) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`
			INSERT INTO admin_messages (message_id, chat_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (message_id) DO UPDATE SET chat_id = excluded.chat_id
		`), messageID, chatID, at.UTC())
		return nil, err
	})
	return errors.Wrap(err, "add admin message")
}

func (r *AdminMessagesRepository) ListByChat(ctx context.Context, chatID int64) ([]models.AdminReviewItem, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var items []models.AdminReviewItem
		err := db.SelectContext(ctx, &items, db.Rebind(`
			SELECT chat_id, message_id, created_at FROM admin_messages
			WHERE chat_id = ? ORDER BY created_at, message_id
		`), chatID)
		return items, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "list admin messages")
	}
	return result.([]models.AdminReviewItem), nil
}

// DeleteByChat removes every review item of chatID and returns how many were
// removed. Zero means another decision already consumed them.
func (r *AdminMessagesRepository) DeleteByChat(ctx context.Context, chatID int64) (int64, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM admin_messages WHERE chat_id = ?`), chatID)
		if err != nil {
			return int64(0), err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return 0, errors.Wrap(err, "delete admin messages")
	}
	return result.(int64), nil
}
