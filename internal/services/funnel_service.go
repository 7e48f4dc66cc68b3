package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/fsm"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// videoNotePrefixes are the file id prefixes Telegram uses for uploaded videos.
var videoNotePrefixes = []string{"BAAC", "DQAC"}

// FunnelService delivers the operator-authored content around the quiz:
// welcome, follow-up, and the payment funnels.
type FunnelService struct {
	content  *db.ContentRepository
	approval *ApprovalService
	msg      *MessageManager
	adminID  int64
}

func NewFunnelService(content *db.ContentRepository, approval *ApprovalService, msg *MessageManager, adminID int64) *FunnelService {
	return &FunnelService{
		content:  content,
		approval: approval,
		msg:      msg,
		adminID:  adminID,
	}
}

func (s *FunnelService) SendWelcome(ctx context.Context, chatID int64) error {
	w, err := s.content.GetWelcome(ctx)
	if err != nil {
		return errors.Wrap(err, "get welcome")
	}

	if w.PhotoID != "" {
		if _, err := s.msg.SendPhotoByID(ctx, chatID, w.PhotoID, "", nil); err != nil {
			s.msg.SendHTML(ctx, chatID, TextPhotoFailed, nil)
		}
	}
	if w.Text1 != "" {
		s.msg.SendHTML(ctx, chatID, w.Text1, nil)
	}
	if w.Text2 != "" {
		button := w.ButtonText
		if button == "" {
			button = TextStartGameButton
		}
		s.msg.SendHTML(ctx, chatID, w.Text2, singleButton(button, fsm.CallbackStartGame))
	}
	return nil
}

// SendFollowup delivers the post-result messages and the call to action.
// It needs nothing but chatID, so it runs fine after the progress record is gone.
func (s *FunnelService) SendFollowup(ctx context.Context, chatID int64) {
	msgs, err := s.content.GetFollowup(ctx)
	if err != nil {
		s.getLogEntry().WithError(err).Warn("follow-up content unavailable")
	}
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		s.msg.SendHTML(ctx, chatID, m.Content, nil)
	}

	if _, err := s.msg.SendHTML(ctx, chatID, TextResultCTA, singleButton(TextResultCTAButton, fsm.CallbackAfterPayment)); err != nil {
		s.getLogEntry().WithError(err).Errorf("call to action for %d failed", chatID)
	}
}

// SendAfterPayment delivers the after_payment funnel; its buttons start the subscription.
func (s *FunnelService) SendAfterPayment(ctx context.Context, chatID int64) error {
	return s.sendFunnel(ctx, chatID, models.FunnelAfterPayment, fsm.CallbackStartSubscription)
}

// StartSubscription marks chatID pending, tells the admin and shows the payment instructions.
func (s *FunnelService) StartSubscription(ctx context.Context, chatID int64) error {
	if err := s.approval.MarkPending(ctx, chatID); err != nil {
		return errors.Wrap(err, "mark pending")
	}

	name, err := s.msg.DisplayName(ctx, chatID)
	if err != nil {
		s.getLogEntry().WithError(err).Debugf("display name for %d unavailable", chatID)
	}
	if _, err := s.msg.SendHTML(ctx, s.adminID, fmt.Sprintf(AdminPaymentStarted, FormatBold(name)), nil); err != nil {
		s.getLogEntry().WithError(err).Warn("admin payment notice failed")
	}

	return s.SendPaymentFlow(ctx, chatID)
}

// SendPaymentFlow re-delivers the payment instructions.
func (s *FunnelService) SendPaymentFlow(ctx context.Context, chatID int64) error {
	return s.sendFunnel(ctx, chatID, models.FunnelAfterPaymentFollowup, fsm.CallbackStartPaymentFlow)
}

func (s *FunnelService) sendFunnel(ctx context.Context, chatID int64, funnel, buttonCallback string) error {
	blocks, err := s.content.GetFunnel(ctx, funnel)
	if err != nil {
		s.msg.SendHTML(ctx, chatID, TextContentFailed, nil)
		return err
	}
	for _, b := range blocks {
		s.sendBlock(ctx, chatID, b, buttonCallback)
	}
	return nil
}

func (s *FunnelService) sendBlock(ctx context.Context, chatID int64, b models.FunnelBlock, buttonCallback string) {
	content := strings.TrimSpace(b.Content)
	if content == "" {
		return
	}

	switch b.Type {
	case models.BlockTypeText:
		s.msg.SendHTML(ctx, chatID, b.Content, nil)
	case models.BlockTypePhoto:
		if _, err := s.msg.SendPhotoByID(ctx, chatID, content, "", nil); err != nil {
			s.msg.SendHTML(ctx, chatID, TextPhotoFailed, nil)
		}
	case models.BlockTypeVideo:
		if !IsVideoNoteID(content) {
			s.getLogEntry().Warnf("%s block %d is not a video note file id", b.Funnel, b.SortOrder)
			s.msg.SendHTML(ctx, chatID, TextVideoNoteInvalid, nil)
			return
		}
		s.msg.SendVideoNoteByID(ctx, chatID, content)
	case models.BlockTypeButton:
		if strings.TrimSpace(b.ButtonText) == "" {
			s.getLogEntry().Warnf("%s block %d has no button text", b.Funnel, b.SortOrder)
			return
		}
		s.msg.SendHTML(ctx, chatID, b.Content, singleButton(b.ButtonText, buttonCallback))
	default:
		s.getLogEntry().Warnf("%s block %d has unknown type %q", b.Funnel, b.SortOrder, b.Type)
	}
}

// IsVideoNoteID reports whether fileID looks like a Telegram video or video note file id.
func IsVideoNoteID(fileID string) bool {
	for _, prefix := range videoNotePrefixes {
		if strings.HasPrefix(fileID, prefix) {
			return true
		}
	}
	return false
}

func (s *FunnelService) getLogEntry() *log.Entry {
	return log.WithField("context", "funnel")
}
