package db

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type TaskFunc func(ctx context.Context, db *sqlx.DB) (interface{}, error)

type DBTask struct {
	Ctx  context.Context
	Exec TaskFunc
	Resp chan DBResult
}

type DBResult struct {
	Data interface{}
	Err  error
}

// DBQueue runs every storage call on a single worker.
type DBQueue struct {
	tasks      chan DBTask
	db         *sqlx.DB
	maxRetry   int
	retryDelay time.Duration
	timeout    time.Duration
	testMode   bool
	closeOnce  sync.Once
}

func NewDBQueue(db *sqlx.DB, timeout time.Duration) *DBQueue {
	q := &DBQueue{
		tasks:      make(chan DBTask, 100),
		db:         db,
		maxRetry:   3,
		retryDelay: 100 * time.Millisecond,
		timeout:    timeout,
		testMode:   false,
	}
	go q.worker()
	return q
}

func NewDBQueueForTest(db *sqlx.DB) *DBQueue {
	q := &DBQueue{
		tasks:      make(chan DBTask, 100),
		db:         db,
		maxRetry:   3,
		retryDelay: 1 * time.Millisecond, // Minimal delay for tests
		testMode:   true,
	}
	go q.worker()
	return q
}

func (q *DBQueue) Execute(ctx context.Context, task TaskFunc) (interface{}, error) {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	resp := make(chan DBResult, 1)
	select {
	case q.tasks <- DBTask{Ctx: ctx, Exec: task, Resp: resp}:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "enqueue db task")
	}

	select {
	case result := <-resp:
		return result.Data, result.Err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "wait db task")
	}
}

func (q *DBQueue) worker() {
	for task := range q.tasks {
		if err := task.Ctx.Err(); err != nil {
			task.Resp <- DBResult{Err: err}
			continue
		}
		task.Resp <- q.executeWithRetry(task)
	}
}

func (q *DBQueue) executeWithRetry(task DBTask) DBResult {
	var lastErr error
	for attempt := 0; attempt < q.maxRetry; attempt++ {
		data, err := task.Exec(task.Ctx, q.db)
		if err == nil {
			return DBResult{Data: data, Err: nil}
		}
		lastErr = err
		if isPermanent(err) {
			break
		}
		if attempt < q.maxRetry-1 { // Don't sleep after the last attempt
			delay := q.retryDelay
			if !q.testMode {
				delay = time.Duration(attempt+1) * q.retryDelay
			}
			select {
			case <-time.After(delay):
			case <-task.Ctx.Done():
				return DBResult{Err: lastErr}
			}
		}
	}
	return DBResult{Err: lastErr}
}

func (q *DBQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})
}

func (q *DBQueue) DB() *sqlx.DB {
	return q.db
}
