package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PaidUsersRepository struct {
	queue *DBQueue
}

func NewPaidUsersRepository(queue *DBQueue) *PaidUsersRepository {
	return &PaidUsersRepository{queue: queue}
}

func (r *PaidUsersRepository) Record(ctx context.Context, chatID int64, at time.Time) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`INSERT INTO paid_users (chat_id, paid_at) VALUES (?, ?)`), chatID, at.UTC())
		return nil, err
	})
	return errors.Wrap(err, "record paid user")
}

func (r *PaidUsersRepository) Count(ctx context.Context, chatID int64) (int, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var count int
		err := db.GetContext(ctx, &count, db.Rebind(`SELECT COUNT(*) FROM paid_users WHERE chat_id = ?`), chatID)
		return count, err
	})
	if err != nil {
		return 0, errors.Wrap(err, "count paid users")
	}
	return result.(int), nil
}
