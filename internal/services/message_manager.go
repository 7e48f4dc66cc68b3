package services

import (
	"context"
	"strconv"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/pkg/errors"
)

type MessageManager struct {
	bot      Messenger
	errMgr   *ErrorManager
	maxRetry int
}

func NewMessageManager(b Messenger, errMgr *ErrorManager) *MessageManager {
	return &MessageManager{
		bot:      b,
		errMgr:   errMgr,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, "sendMessage", chatID, params, lastErr)
	return nil, errors.Wrap(lastErr, "send message")
}

func (m *MessageManager) SendPhotoWithRetry(ctx context.Context, params *bot.SendPhotoParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendPhoto(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, "sendPhoto", chatID, params, lastErr)
	return nil, errors.Wrap(lastErr, "send photo")
}

func (m *MessageManager) SendDocumentWithRetry(ctx context.Context, params *bot.SendDocumentParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendDocument(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, "sendDocument", chatID, params, lastErr)
	return nil, errors.Wrap(lastErr, "send document")
}

func (m *MessageManager) SendVideoNoteWithRetry(ctx context.Context, params *bot.SendVideoNoteParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendVideoNote(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, "sendVideoNote", chatID, params, lastErr)
	return nil, errors.Wrap(lastErr, "send video note")
}

// SendHTML sends text in HTML parse mode with an optional inline keyboard.
func (m *MessageManager) SendHTML(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) (*tgmodels.Message, error) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	return m.SendWithRetry(ctx, params)
}

func (m *MessageManager) SendPhotoByID(ctx context.Context, chatID int64, fileID, caption string, keyboard *tgmodels.InlineKeyboardMarkup) (*tgmodels.Message, error) {
	params := &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &tgmodels.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	return m.SendPhotoWithRetry(ctx, params)
}

func (m *MessageManager) SendDocumentByID(ctx context.Context, chatID int64, fileID string) (*tgmodels.Message, error) {
	return m.SendDocumentWithRetry(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &tgmodels.InputFileString{Data: fileID},
	})
}

func (m *MessageManager) SendVideoNoteByID(ctx context.Context, chatID int64, fileID string) (*tgmodels.Message, error) {
	return m.SendVideoNoteWithRetry(ctx, &bot.SendVideoNoteParams{
		ChatID:    chatID,
		VideoNote: &tgmodels.InputFileString{Data: fileID},
	})
}

// ReplaceWithText rewrites a message in place and strips its inline keyboard.
func (m *MessageManager) ReplaceWithText(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := m.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: &tgmodels.InlineKeyboardMarkup{InlineKeyboard: [][]tgmodels.InlineKeyboardButton{}},
	})
	return errors.Wrap(err, "edit message")
}

func (m *MessageManager) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := m.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return errors.Wrap(err, "delete message")
}

func (m *MessageManager) AnswerCallback(ctx context.Context, callbackID string) error {
	_, err := m.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	return errors.Wrap(err, "answer callback")
}

// DisplayName resolves "First @username" for chatID. On failure it returns
// the raw chat id together with the error.
func (m *MessageManager) DisplayName(ctx context.Context, chatID int64) (string, error) {
	chat, err := m.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		return strconv.FormatInt(chatID, 10), errors.Wrap(err, "get chat")
	}
	user := models.User{ID: chatID, FirstName: chat.FirstName, Username: chat.Username}
	return user.DisplayName(), nil
}
