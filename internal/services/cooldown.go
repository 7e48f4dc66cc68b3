package services

import (
	"context"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CooldownGuard throttles repeated triggering of one action by one chat.
// Storage failures let the action through.
type CooldownGuard struct {
	repo *db.CooldownRepository
	now  func() time.Time
}

func NewCooldownGuard(repo *db.CooldownRepository) *CooldownGuard {
	return &CooldownGuard{repo: repo, now: time.Now}
}

// CheckAndArm reports whether action may run now and, if so, restarts its window.
func (g *CooldownGuard) CheckAndArm(ctx context.Context, chatID int64, action string, window time.Duration) bool {
	now := g.now()

	entry, err := g.repo.Get(ctx, chatID, action)
	if errors.Is(err, db.ErrNotFound) {
		inserted, err := g.repo.Insert(ctx, chatID, action, now)
		if err != nil {
			g.getLogEntry().WithError(err).Warnf("cooldown insert failed for %d/%s, allowing", chatID, action)
			return true
		}
		return inserted
	}
	if err != nil {
		g.getLogEntry().WithError(err).Warnf("cooldown lookup failed for %d/%s, allowing", chatID, action)
		return true
	}

	if now.Sub(entry.LastAt) < window {
		return false
	}

	swapped, err := g.repo.CompareAndSwap(ctx, chatID, action, entry.LastAt, now)
	if err != nil {
		g.getLogEntry().WithError(err).Warnf("cooldown update failed for %d/%s, allowing", chatID, action)
		return true
	}
	return swapped
}

func (g *CooldownGuard) getLogEntry() *log.Entry {
	return log.WithField("context", "cooldown")
}
