package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/fsm"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/observability"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"
)

const mimePDF = "application/pdf"

type Options struct {
	AdminID        int64
	StartCooldown  time.Duration
	AnswerCooldown time.Duration
	UpdateTimeout  time.Duration
}

type BotHandler struct {
	opts         Options
	errorManager *services.ErrorManager
	msgManager   *services.MessageManager
	quiz         *services.QuizService
	funnel       *services.FunnelService
	approval     *services.ApprovalService
	cooldown     *services.CooldownGuard
	adminHandler *AdminHandler
}

func NewBotHandler(
	opts Options,
	errorManager *services.ErrorManager,
	msgManager *services.MessageManager,
	quiz *services.QuizService,
	funnel *services.FunnelService,
	approval *services.ApprovalService,
	cooldown *services.CooldownGuard,
) *BotHandler {
	return &BotHandler{
		opts:         opts,
		errorManager: errorManager,
		msgManager:   msgManager,
		quiz:         quiz,
		funnel:       funnel,
		approval:     approval,
		cooldown:     cooldown,
		adminHandler: NewAdminHandler(opts.AdminID, approval, msgManager),
	}
}

// HandleUpdate is a bot.HandlerFunc. The bot argument is unused, so webhook
// callers may pass nil.
func (h *BotHandler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	done := observability.StartUpdate(updateKind(update))
	defer done()

	if h.opts.UpdateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.UpdateTimeout)
		defer cancel()
	}

	if update.CallbackQuery != nil && h.adminHandler.HandleCallback(ctx, update.CallbackQuery) {
		return
	}

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.getLogEntry().Errorf("panic while handling update %d: %v", update.ID, r)
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func updateKind(update *tgmodels.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message != nil && len(update.Message.Photo) > 0:
		return "photo"
	case update.Message != nil:
		return "message"
	}
	return "other"
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	chatID := msg.Chat.ID

	switch {
	case len(msg.Photo) > 0:
		h.handlePhoto(ctx, msg)
	case msg.Sticker != nil:
		h.replyFileID(ctx, chatID, services.TextStickerID, msg.Sticker.FileID)
	case msg.Audio != nil:
		h.replyFileID(ctx, chatID, services.TextAudioID, msg.Audio.FileID)
	case msg.Voice != nil:
		h.replyFileID(ctx, chatID, services.TextAudioID, msg.Voice.FileID)
	case msg.Document != nil && msg.Document.MimeType == mimePDF:
		h.replyFileID(ctx, chatID, services.TextDocumentID, msg.Document.FileID)
	case isStartCommand(msg.Text):
		h.handleStart(ctx, chatID)
	}
}

func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && fields[0] == "/start"
}

func (h *BotHandler) handleStart(ctx context.Context, chatID int64) {
	if err := h.funnel.SendWelcome(ctx, chatID); err != nil {
		h.getLogEntry().WithError(err).Errorf("welcome failed for %d", chatID)
		h.apologize(ctx, chatID)
	}
}

func (h *BotHandler) handlePhoto(ctx context.Context, msg *tgmodels.Message) {
	chatID := msg.Chat.ID
	best := msg.Photo[len(msg.Photo)-1]

	forwarded, err := h.approval.SubmitScreenshot(ctx, chatID, best.FileID, chatDisplayName(msg.Chat))
	if err != nil {
		h.getLogEntry().WithError(err).Errorf("screenshot hand-off failed for %d", chatID)
		h.apologize(ctx, chatID)
		return
	}
	if !forwarded {
		h.getLogEntry().Debugf("photo from %d ignored, no pending payment", chatID)
	}
}

func chatDisplayName(chat tgmodels.Chat) string {
	switch {
	case chat.FirstName != "":
		return chat.FirstName
	case chat.Username != "":
		return "@" + chat.Username
	}
	return strconv.FormatInt(chat.ID, 10)
}

func (h *BotHandler) replyFileID(ctx context.Context, chatID int64, format, fileID string) {
	text := fmt.Sprintf(format, services.FormatCode(fileID))
	if _, err := h.msgManager.SendHTML(ctx, chatID, text, nil); err != nil {
		h.getLogEntry().WithError(err).Warnf("file id reply failed for %d", chatID)
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	defer h.answerCallback(ctx, callback)

	chatID, messageID := callbackOrigin(callback)
	data := callback.Data

	switch {
	case data == fsm.CallbackStartGame:
		if !h.cooldown.CheckAndArm(ctx, chatID, data, h.opts.StartCooldown) {
			h.sendText(ctx, chatID, services.TextTooFast)
			return
		}
		if err := h.quiz.Start(ctx, chatID); err != nil {
			h.getLogEntry().WithError(err).Errorf("quiz start failed for %d", chatID)
			h.apologize(ctx, chatID)
		}

	case strings.HasPrefix(data, fsm.PrefixAnswer+"_"):
		value, question, ok := ParseAnswerCallback(data)
		if !ok {
			h.getLogEntry().Warnf("malformed answer callback %q from %d", data, chatID)
			return
		}
		if !h.cooldown.CheckAndArm(ctx, chatID, data, h.opts.AnswerCooldown) {
			h.sendText(ctx, chatID, services.TextTooFast)
			return
		}
		if err := h.quiz.SubmitAnswer(ctx, chatID, value, question, messageID); err != nil {
			h.getLogEntry().WithError(err).Errorf("answer %q failed for %d", data, chatID)
			h.apologize(ctx, chatID)
		}

	case data == fsm.CallbackAfterPayment:
		if err := h.funnel.SendAfterPayment(ctx, chatID); err != nil {
			h.getLogEntry().WithError(err).Errorf("after-payment funnel failed for %d", chatID)
		}

	case data == fsm.CallbackStartPaymentFlow:
		if err := h.funnel.SendPaymentFlow(ctx, chatID); err != nil {
			h.getLogEntry().WithError(err).Errorf("payment flow failed for %d", chatID)
		}

	case data == fsm.CallbackStartSubscription:
		if err := h.funnel.StartSubscription(ctx, chatID); err != nil {
			h.getLogEntry().WithError(err).Errorf("subscription start failed for %d", chatID)
			h.apologize(ctx, chatID)
		}

	default:
		h.getLogEntry().Debugf("unknown callback %q from %d", data, chatID)
	}
}

func (h *BotHandler) answerCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	if err := h.msgManager.AnswerCallback(ctx, callback.ID); err != nil {
		h.getLogEntry().WithError(err).Debugf("answerCallbackQuery failed for %s", callback.ID)
	}
}

func (h *BotHandler) apologize(ctx context.Context, chatID int64) {
	h.sendText(ctx, chatID, services.TextApology)
}

func (h *BotHandler) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := h.msgManager.SendHTML(ctx, chatID, text, nil); err != nil {
		h.getLogEntry().WithError(err).Warnf("failed to send message to %d", chatID)
	}
}

func (h *BotHandler) getLogEntry() *log.Entry {
	return log.WithField("context", "handler")
}
