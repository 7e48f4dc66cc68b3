package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type FollowupFunc func(ctx context.Context, chatID int64)

// DelayedFollowup runs the post-result follow-up either inline (zero delay)
// or as a one-shot gocron job detached from the update that triggered it.
type DelayedFollowup struct {
	scheduler *gocron.Scheduler
	delay     time.Duration
	timeout   time.Duration
	deliver   FollowupFunc
}

func NewDelayedFollowup(delay, timeout time.Duration, deliver FollowupFunc) *DelayedFollowup {
	return &DelayedFollowup{
		scheduler: gocron.NewScheduler(time.UTC),
		delay:     delay,
		timeout:   timeout,
		deliver:   deliver,
	}
}

func (f *DelayedFollowup) Start() {
	f.scheduler.StartAsync()
}

func (f *DelayedFollowup) Stop() {
	f.scheduler.Stop()
}

func (f *DelayedFollowup) Schedule(ctx context.Context, chatID int64) error {
	if f.delay <= 0 {
		f.deliver(ctx, chatID)
		return nil
	}

	_, err := f.scheduler.
		Every(f.delay).
		StartAt(time.Now().Add(f.delay)).
		LimitRunsTo(1).
		Tag(fmt.Sprintf("followup-%d", chatID)).
		Do(f.run, chatID)
	if err != nil {
		return errors.Wrap(err, "schedule follow-up")
	}
	log.WithField("context", "followup").Debugf("follow-up for %d in %s", chatID, f.delay)
	return nil
}

func (f *DelayedFollowup) run(chatID int64) {
	ctx := context.Background()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	f.deliver(ctx, chatID)
}
