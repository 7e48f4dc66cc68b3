package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PendingRepository tracks users who were shown payment instructions.
type PendingRepository struct {
	queue *DBQueue
}

func NewPendingRepository(queue *DBQueue) *PendingRepository {
	return &PendingRepository{queue: queue}
}

// Insert fails with a unique violation when chatID is already pending.
func (r *PendingRepository) Insert(ctx context.Context, chatID int64, at time.Time) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`INSERT INTO pending (chat_id, created_at) VALUES (?, ?)`), chatID, at.UTC())
		return nil, err
	})
	return errors.Wrap(err, "insert pending")
}

func (r *PendingRepository) Exists(ctx context.Context, chatID int64) (bool, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var count int
		err := db.GetContext(ctx, &count, db.Rebind(`SELECT COUNT(*) FROM pending WHERE chat_id = ?`), chatID)
		return count > 0, err
	})
	if err != nil {
		return false, errors.Wrap(err, "check pending")
	}
	return result.(bool), nil
}

func (r *PendingRepository) Delete(ctx context.Context, chatID int64) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM pending WHERE chat_id = ?`), chatID)
		return nil, err
	})
	return errors.Wrap(err, "delete pending")
}
