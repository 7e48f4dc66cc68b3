package services

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"
)

const maxAdminReportLen = 4000

type ErrorManager struct {
	bot     Messenger
	adminID int64
}

func NewErrorManager(b Messenger, adminID int64) *ErrorManager {
	return &ErrorManager{
		bot:     b,
		adminID: adminID,
	}
}

func (e *ErrorManager) NotifyAdmin(ctx context.Context, panicValue interface{}, update *tgmodels.Update) {
	userInfo := "unknown"
	updateKind := "unknown"

	if update != nil {
		var from *tgmodels.User
		switch {
		case update.Message != nil:
			updateKind = "message"
			from = update.Message.From
		case update.CallbackQuery != nil:
			updateKind = "callback " + update.CallbackQuery.Data
			from = &update.CallbackQuery.From
		}
		if from != nil && from.ID != 0 {
			user := models.User{ID: from.ID, FirstName: from.FirstName, Username: from.Username}
			userInfo = fmt.Sprintf("%s [%d]", user.DisplayName(), from.ID)
		}
	}

	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nUpdate: %s\nError: %v\n\nStack trace:\n%s",
		userInfo, updateKind, panicValue, string(debug.Stack()))

	e.send(ctx, truncateReport(msg))
}

func (e *ErrorManager) NotifyAdminWithCurl(ctx context.Context, method string, chatID int64, request interface{}, err error) {
	curl := e.buildCurlCommand(method, request)

	msg := fmt.Sprintf("❌ Failed to %s\nUser: [%d]\nError: %v\n\nCurl:\n%s",
		method, chatID, err, curl)

	e.send(ctx, truncateReport(msg))
}

func (e *ErrorManager) send(ctx context.Context, text string) {
	if e.adminID == 0 {
		return
	}
	if _, err := e.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.adminID,
		Text:   text,
	}); err != nil {
		log.WithField("context", "error_manager").WithError(err).Warn("admin report not delivered")
	}
}

func (e *ErrorManager) buildCurlCommand(method string, request interface{}) string {
	jsonData, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Sprintf("# Failed to serialize request: %v", err)
	}

	return fmt.Sprintf("curl -X POST 'https://api.telegram.org/bot[BOT_TOKEN]/%s' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		method, string(jsonData))
}

func truncateReport(msg string) string {
	runes := []rune(msg)
	if len(runes) > maxAdminReportLen {
		return string(runes[:maxAdminReportLen]) + "\n... (truncated)"
	}
	return msg
}
