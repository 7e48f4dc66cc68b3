package handlers

import (
	"strconv"
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/fsm"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	tgmodels "github.com/go-telegram/bot/models"
)

// ParseAnswerCallback decodes answer_<value>_<question>.
func ParseAnswerCallback(data string) (value, question int, ok bool) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0] != fsm.PrefixAnswer {
		return 0, 0, false
	}
	value, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	question, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return value, question, true
}

// ParseDecisionCallback decodes approve_<chatId> and reject_<chatId>.
func ParseDecisionCallback(data string) (models.DecisionAction, int64, bool) {
	prefix, rest, found := strings.Cut(data, "_")
	if !found {
		return "", 0, false
	}
	action := models.DecisionAction(prefix)
	if !action.Valid() {
		return "", 0, false
	}
	target, err := parseInt64(rest)
	if err != nil || target == 0 {
		return "", 0, false
	}
	return action, target, true
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// callbackOrigin returns the chat and message the pressed button belongs to.
func callbackOrigin(callback *tgmodels.CallbackQuery) (chatID int64, messageID int) {
	switch {
	case callback.Message.Message != nil:
		return callback.Message.Message.Chat.ID, callback.Message.Message.ID
	case callback.Message.InaccessibleMessage != nil:
		return callback.Message.InaccessibleMessage.Chat.ID, callback.Message.InaccessibleMessage.MessageID
	}
	return callback.From.ID, 0
}
