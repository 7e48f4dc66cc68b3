package db

import (
	"context"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ContentRepository reads the operator-managed texts, media ids and funnels.
type ContentRepository struct {
	queue *DBQueue
}

func NewContentRepository(queue *DBQueue) *ContentRepository {
	return &ContentRepository{queue: queue}
}

func (r *ContentRepository) GetWelcome(ctx context.Context) (*models.Welcome, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var w models.Welcome
		err := db.GetContext(ctx, &w, `SELECT photo_id, text_1, text_2, button_text FROM welcome WHERE id = 1`)
		if err != nil {
			return nil, notFound(err)
		}
		return &w, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Welcome), nil
}

// GetQuestion returns question n with its options ordered by number.
func (r *ContentRepository) GetQuestion(ctx context.Context, n int) (*models.Question, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var q models.Question
		err := db.GetContext(ctx, &q, db.Rebind(`
			SELECT question_number, photo_id, prompt FROM questions WHERE question_number = ?
		`), n)
		if err != nil {
			return nil, notFound(err)
		}
		err = db.SelectContext(ctx, &q.Options, db.Rebind(`
			SELECT question_number, option_number, text FROM question_options
			WHERE question_number = ? ORDER BY option_number
		`), n)
		if err != nil {
			return nil, err
		}
		q.SortOptions()
		return &q, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Question), nil
}

func (r *ContentRepository) GetOptionText(ctx context.Context, question, option int) (string, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var text string
		err := db.GetContext(ctx, &text, db.Rebind(`
			SELECT text FROM question_options WHERE question_number = ? AND option_number = ?
		`), question, option)
		if err != nil {
			return "", notFound(err)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (r *ContentRepository) GetResult(ctx context.Context, n int) (*models.Result, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var res models.Result
		err := db.GetContext(ctx, &res, db.Rebind(`
			SELECT result_number, photo_id, text, document_id FROM results WHERE result_number = ?
		`), n)
		if err != nil {
			return nil, notFound(err)
		}
		return &res, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Result), nil
}

func (r *ContentRepository) GetFollowup(ctx context.Context) ([]models.FollowupMessage, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var msgs []models.FollowupMessage
		err := db.SelectContext(ctx, &msgs, `SELECT sort_order, content FROM followup ORDER BY sort_order`)
		return msgs, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "get followup")
	}
	return result.([]models.FollowupMessage), nil
}

func (r *ContentRepository) GetFunnel(ctx context.Context, funnel string) ([]models.FunnelBlock, error) {
	result, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		var blocks []models.FunnelBlock
		err := db.SelectContext(ctx, &blocks, db.Rebind(`
			SELECT funnel, sort_order, type, content, button_text FROM funnel_blocks
			WHERE funnel = ? ORDER BY sort_order
		`), funnel)
		return blocks, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get funnel %s", funnel)
	}
	return result.([]models.FunnelBlock), nil
}

// Replace swaps every content table for the snapshot in one transaction.
func (r *ContentRepository) Replace(ctx context.Context, content *models.Content) error {
	_, err := r.queue.Execute(ctx, func(ctx context.Context, db *sqlx.DB) (interface{}, error) {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		for _, table := range []string{"welcome", "question_options", "questions", "results", "followup", "funnel_blocks"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return nil, errors.Wrapf(err, "clear %s", table)
			}
		}

		if w := content.Welcome; w != nil {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO welcome (id, photo_id, text_1, text_2, button_text) VALUES (1, ?, ?, ?, ?)
			`), w.PhotoID, w.Text1, w.Text2, w.ButtonText); err != nil {
				return nil, errors.Wrap(err, "insert welcome")
			}
		}

		for _, q := range content.Questions {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO questions (question_number, photo_id, prompt) VALUES (?, ?, ?)
			`), q.Number, q.PhotoID, q.Prompt); err != nil {
				return nil, errors.Wrapf(err, "insert question %d", q.Number)
			}
			for _, opt := range q.Options {
				if _, err := tx.ExecContext(ctx, tx.Rebind(`
					INSERT INTO question_options (question_number, option_number, text) VALUES (?, ?, ?)
				`), q.Number, opt.Number, opt.Text); err != nil {
					return nil, errors.Wrapf(err, "insert option %d/%d", q.Number, opt.Number)
				}
			}
		}

		for _, res := range content.Results {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO results (result_number, photo_id, text, document_id) VALUES (?, ?, ?, ?)
			`), res.Number, res.PhotoID, res.Text, res.DocumentID); err != nil {
				return nil, errors.Wrapf(err, "insert result %d", res.Number)
			}
		}

		for _, f := range content.Followup {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO followup (sort_order, content) VALUES (?, ?)
			`), f.SortOrder, f.Content); err != nil {
				return nil, errors.Wrapf(err, "insert followup %d", f.SortOrder)
			}
		}

		for _, b := range content.Funnels {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO funnel_blocks (funnel, sort_order, type, content, button_text) VALUES (?, ?, ?, ?, ?)
			`), b.Funnel, b.SortOrder, string(b.Type), b.Content, b.ButtonText); err != nil {
				return nil, errors.Wrapf(err, "insert %s block %d", b.Funnel, b.SortOrder)
			}
		}

		return nil, tx.Commit()
	})
	return errors.Wrap(err, "replace content")
}
