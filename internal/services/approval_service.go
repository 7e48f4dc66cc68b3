package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/observability"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ApprovalService runs the payment handshake: a pending user submits a
// screenshot, the admin approves or rejects it exactly once.
type ApprovalService struct {
	pending *db.PendingRepository
	reviews *db.AdminMessagesRepository
	paid    *db.PaidUsersRepository
	msg     *MessageManager
	adminID int64
	now     func() time.Time
}

func NewApprovalService(
	pending *db.PendingRepository,
	reviews *db.AdminMessagesRepository,
	paid *db.PaidUsersRepository,
	msg *MessageManager,
	adminID int64,
) *ApprovalService {
	return &ApprovalService{
		pending: pending,
		reviews: reviews,
		paid:    paid,
		msg:     msg,
		adminID: adminID,
		now:     time.Now,
	}
}

func (s *ApprovalService) MarkPending(ctx context.Context, chatID int64) error {
	exists, err := s.pending.Exists(ctx, chatID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = s.pending.Insert(ctx, chatID, s.now())
	if db.IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (s *ApprovalService) IsPending(ctx context.Context, chatID int64) (bool, error) {
	return s.pending.Exists(ctx, chatID)
}

// SubmitScreenshot forwards a payment screenshot for review. Users that are
// not pending only get guidance. The pending mark stays until the admin decides.
func (s *ApprovalService) SubmitScreenshot(ctx context.Context, chatID int64, fileID, displayName string) (bool, error) {
	pending, err := s.IsPending(ctx, chatID)
	if err != nil {
		return false, err
	}
	if !pending {
		s.msg.SendHTML(ctx, chatID, EscapeHTML(TextNotPending), nil)
		return false, nil
	}

	caption := fmt.Sprintf(AdminScreenshotCaption, FormatBold(displayName), FormatCode(strconv.FormatInt(chatID, 10)))
	forwarded, err := s.msg.SendPhotoByID(ctx, s.adminID, fileID, caption, decisionKeyboard(chatID))
	if err != nil {
		return false, errors.Wrap(err, "forward screenshot")
	}

	if err := s.reviews.Add(ctx, chatID, forwarded.ID, s.now()); err != nil {
		// Buttons on an uncorrelated message could never resolve.
		if delErr := s.msg.DeleteMessage(ctx, s.adminID, forwarded.ID); delErr != nil {
			s.getLogEntry().WithError(delErr).Warn("orphan screenshot not retracted")
		}
		return false, err
	}

	s.msg.SendHTML(ctx, chatID, TextScreenshotReceived, nil)
	return true, nil
}

// ResolveAdminAction applies an approve or reject to target. It returns false
// when the review was already handled; the admin is told so.
func (s *ApprovalService) ResolveAdminAction(ctx context.Context, action models.DecisionAction, target int64) (bool, error) {
	if !action.Valid() {
		return false, errors.Errorf("unknown decision %q", action)
	}

	items, err := s.reviews.ListByChat(ctx, target)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		s.reportDuplicate(ctx, action, target)
		return false, nil
	}

	name, err := s.msg.DisplayName(ctx, target)
	if err != nil {
		s.getLogEntry().WithError(err).Debugf("display name for %d unavailable", target)
		name = ""
	}

	deleted, err := s.reviews.DeleteByChat(ctx, target)
	if err != nil {
		return false, err
	}
	if deleted == 0 {
		s.reportDuplicate(ctx, action, target)
		return false, nil
	}

	idCode := FormatCode(strconv.FormatInt(target, 10))
	switch action {
	case models.ActionApprove:
		if err := s.paid.Record(ctx, target, s.now()); err != nil {
			s.restore(ctx, items)
			return false, err
		}
		s.clearPending(ctx, target)
		s.msg.SendHTML(ctx, target, TextPaymentApproved, nil)
		s.msg.SendHTML(ctx, s.adminID, fmt.Sprintf(AdminApproved, idCode, EscapeHTML(name)), nil)
	case models.ActionReject:
		s.clearPending(ctx, target)
		s.msg.SendHTML(ctx, target, TextPaymentRejected, nil)
		s.msg.SendHTML(ctx, s.adminID, fmt.Sprintf(AdminRejected, idCode, EscapeHTML(name)), nil)
	}

	for _, item := range items {
		if err := s.msg.DeleteMessage(ctx, s.adminID, item.AdminMessageID); err != nil {
			s.getLogEntry().WithError(err).Warnf("screenshot %d not retracted", item.AdminMessageID)
		}
	}

	observability.RecordDecision(string(action), "applied")
	s.getLogEntry().Infof("%s applied for %d", action, target)
	return true, nil
}

func (s *ApprovalService) reportDuplicate(ctx context.Context, action models.DecisionAction, target int64) {
	observability.RecordDecision(string(action), "duplicate")
	s.getLogEntry().Debugf("duplicate %s for %d", action, target)
	s.msg.SendHTML(ctx, s.adminID, AdminDuplicateAction, nil)
}

func (s *ApprovalService) clearPending(ctx context.Context, chatID int64) {
	if err := s.pending.Delete(ctx, chatID); err != nil {
		s.getLogEntry().WithError(err).Warnf("pending for %d not cleared", chatID)
	}
}

// restore puts consumed review items back so the admin can retry the decision.
func (s *ApprovalService) restore(ctx context.Context, items []models.AdminReviewItem) {
	for _, item := range items {
		if err := s.reviews.Add(ctx, item.ChatID, item.AdminMessageID, item.CreatedAt); err != nil {
			s.getLogEntry().WithError(err).Errorf("review item %d lost", item.AdminMessageID)
		}
	}
}

func (s *ApprovalService) getLogEntry() *log.Entry {
	return log.WithField("context", "approval")
}
