package handlers

import (
	"context"
	"fmt"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"
)

func formatUser(u *tgmodels.User) string {
	if u == nil {
		return "unknown"
	}
	user := models.User{ID: u.ID, FirstName: u.FirstName, Username: u.Username}
	return fmt.Sprintf("%s [%d]", user.DisplayName(), u.ID)
}

func LogMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		entry := log.WithField("context", "updates")
		if update.Message != nil {
			entry.Infof("[MSG] from=%s text=%q photo=%t", formatUser(update.Message.From), update.Message.Text, len(update.Message.Photo) > 0)
		}
		if update.CallbackQuery != nil {
			entry.Infof("[CALLBACK] from=%s data=%q", formatUser(&update.CallbackQuery.From), update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
