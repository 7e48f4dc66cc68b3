package db

import (
	"context"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type CooldownRepository struct {
	queue *DBQueue
}

func NewCooldownRepository(queue *DBQueue) *CooldownRepository {
	return &CooldownRepository{queue: queue}
}

func (r *CooldownRepository) Get(ctx context.Context, chatID int64, action string) (*models.CooldownEntry, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var lastAt int64
		err := db.GetContext(ctx, &lastAt, db.Rebind(`
			SELECT last_at FROM cooldown WHERE chat_id = ? AND action = ?
		`), chatID, action)
		if err != nil {
			return nil, notFound(err)
		}
		return &models.CooldownEntry{
			ChatID: chatID,
			Action: action,
			LastAt: time.UnixMilli(lastAt),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.CooldownEntry), nil
}

// Insert reports false when a concurrent caller created the entry first.
func (r *CooldownRepository) Insert(ctx context.Context, chatID int64, action string, at time.Time) (bool, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		res, err := db.ExecContext(ctx, db.Rebind(`
			INSERT INTO cooldown (chat_id, action, last_at) VALUES (?, ?, ?)
			ON CONFLICT (chat_id, action) DO NOTHING
		`), chatID, action, at.UnixMilli())
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n == 1, err
	})
	if err != nil {
		return false, errors.Wrap(err, "insert cooldown")
	}
	return result.(bool), nil
}

// CompareAndSwap moves last_at from prev to next and reports false when
// another caller already moved it.
func (r *CooldownRepository) CompareAndSwap(ctx context.Context, chatID int64, action string, prev, next time.Time) (bool, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		res, err := db.ExecContext(ctx, db.Rebind(`
			UPDATE cooldown SET last_at = ?
			WHERE chat_id = ? AND action = ? AND last_at = ?
		`), next.UnixMilli(), chatID, action, prev.UnixMilli())
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n == 1, err
	})
	if err != nil {
		return false, errors.Wrap(err, "update cooldown")
	}
	return result.(bool), nil
}
