package db

import (
	"context"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type ProgressRepository struct {
	queue *DBQueue
}

func NewProgressRepository(queue *DBQueue) *ProgressRepository {
	return &ProgressRepository{queue: queue}
}

// CreateIfAbsent stores a fresh record and reports false when one already exists.
func (r *ProgressRepository) CreateIfAbsent(ctx context.Context, progress *models.UserProgress) (bool, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		res, err := db.ExecContext(ctx, db.Rebind(`
			INSERT INTO user_progress (chat_id, step, answers, last_prompt_message_id, finished)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (chat_id) DO NOTHING
		`), progress.ChatID, progress.Step, progress.Answers, progress.LastPromptMessageID, progress.Finished)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return false, errors.Wrap(err, "create progress")
	}
	return result.(bool), nil
}

func (r *ProgressRepository) Get(ctx context.Context, chatID int64) (*models.UserProgress, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var progress models.UserProgress
		err := db.GetContext(ctx, &progress, db.Rebind(`
			SELECT chat_id, step, answers, last_prompt_message_id, finished
			FROM user_progress WHERE chat_id = ?
		`), chatID)
		if err != nil {
			return nil, notFound(err)
		}
		return &progress, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.UserProgress), nil
}

// RecordAnswer applies an answer only while the record still points at
// promptMessageID. The prompt id is cleared in the same statement, so of two
// concurrent clicks on one prompt exactly one reports true.
func (r *ProgressRepository) RecordAnswer(ctx context.Context, chatID int64, promptMessageID int, step int, answers models.Answers, finished bool) (bool, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		res, err := db.ExecContext(ctx, db.Rebind(`
			UPDATE user_progress
			SET step = ?, answers = ?, finished = ?, last_prompt_message_id = 0
			WHERE chat_id = ? AND finished = ? AND last_prompt_message_id = ? AND last_prompt_message_id <> 0
		`), step, answers, finished, chatID, false, promptMessageID)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n == 1, nil
	})
	if err != nil {
		return false, errors.Wrap(err, "record answer")
	}
	return result.(bool), nil
}

func (r *ProgressRepository) SetPromptMessageID(ctx context.Context, chatID int64, messageID int) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`
			UPDATE user_progress SET last_prompt_message_id = ?
			WHERE chat_id = ? AND finished = ?
		`), messageID, chatID, false)
		return nil, err
	})
	return errors.Wrap(err, "set prompt message id")
}

// DeleteFinished removes chatID's record only once its run is complete, so a
// run restarted in the meantime survives.
func (r *ProgressRepository) DeleteFinished(ctx context.Context, chatID int64) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		_, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM user_progress WHERE chat_id = ? AND finished = ?`), chatID, true)
		return nil, err
	})
	return errors.Wrap(err, "delete finished progress")
}
