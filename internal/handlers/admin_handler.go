package handlers

import (
	"context"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	tgmodels "github.com/go-telegram/bot/models"
	log "github.com/sirupsen/logrus"
)

// AdminHandler owns the approve_/reject_ buttons attached to forwarded
// payment screenshots.
type AdminHandler struct {
	adminID    int64
	approval   *services.ApprovalService
	msgManager *services.MessageManager
}

func NewAdminHandler(
	adminID int64,
	approval *services.ApprovalService,
	msgManager *services.MessageManager,
) *AdminHandler {
	return &AdminHandler{
		adminID:    adminID,
		approval:   approval,
		msgManager: msgManager,
	}
}

// HandleCallback reports whether the callback was a payment decision. Decision
// callbacks from anyone but the admin are consumed and ignored.
func (h *AdminHandler) HandleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) bool {
	action, target, ok := ParseDecisionCallback(callback.Data)
	if !ok {
		return false
	}

	defer func() {
		if err := h.msgManager.AnswerCallback(ctx, callback.ID); err != nil {
			h.getLogEntry().WithError(err).Debug("answerCallbackQuery failed")
		}
	}()

	if callback.From.ID != h.adminID {
		h.getLogEntry().Warnf("user %d pressed %s for %d, ignoring", callback.From.ID, action, target)
		return true
	}

	applied, err := h.approval.ResolveAdminAction(ctx, action, target)
	if err != nil {
		h.getLogEntry().WithError(err).Errorf("%s for %d failed", action, target)
		if _, sendErr := h.msgManager.SendHTML(ctx, h.adminID, services.TextApology, nil); sendErr != nil {
			h.getLogEntry().WithError(sendErr).Warn("failed to notify admin")
		}
		return true
	}
	if !applied {
		h.getLogEntry().Debugf("%s for %d was already handled", action, target)
	}
	return true
}

func (h *AdminHandler) getLogEntry() *log.Entry {
	return log.WithField("context", "admin")
}
