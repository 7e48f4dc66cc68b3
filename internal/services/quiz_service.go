package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/fsm"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/observability"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type QuizConfig struct {
	Questions     int
	Options       int
	ButtonColumns int
}

// FollowupScheduler hands the post-result follow-up to whoever delivers it.
type FollowupScheduler interface {
	Schedule(ctx context.Context, chatID int64) error
}

type QuizService struct {
	progress *db.ProgressRepository
	content  *db.ContentRepository
	msg      *MessageManager
	followup FollowupScheduler
	cfg      QuizConfig
	adminID  int64
	pickIcon func() string
}

func NewQuizService(
	progress *db.ProgressRepository,
	content *db.ContentRepository,
	msg *MessageManager,
	followup FollowupScheduler,
	cfg QuizConfig,
	adminID int64,
) *QuizService {
	return &QuizService{
		progress: progress,
		content:  content,
		msg:      msg,
		followup: followup,
		cfg:      cfg,
		adminID:  adminID,
		pickIcon: func() string {
			return answerIcons[rand.Intn(len(answerIcons))]
		},
	}
}

// State reports where chatID is in the quiz.
func (s *QuizService) State(ctx context.Context, chatID int64) (string, error) {
	p, err := s.progress.Get(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		return fsm.QuizNotStarted, nil
	}
	if err != nil {
		return "", err
	}
	if p.Finished {
		return fsm.QuizFinished, nil
	}
	return fsm.QuizInProgress, nil
}

// Start creates the progress record unless one is in flight and (re)sends question 1.
func (s *QuizService) Start(ctx context.Context, chatID int64) error {
	created, err := s.progress.CreateIfAbsent(ctx, models.NewUserProgress(chatID, s.cfg.Questions))
	if err != nil {
		return err
	}

	if !created {
		state, err := s.State(ctx, chatID)
		if err != nil {
			return err
		}
		// A finished record whose cleanup has not run yet would refuse every prompt.
		if state != fsm.QuizInProgress {
			if err := s.progress.DeleteFinished(ctx, chatID); err != nil {
				return err
			}
			if _, err := s.progress.CreateIfAbsent(ctx, models.NewUserProgress(chatID, s.cfg.Questions)); err != nil {
				return err
			}
		}
	}

	return s.sendQuestion(ctx, chatID, 1)
}

// SubmitAnswer applies option value for question to chatID's progress when
// promptMessageID is the prompt currently on screen. Stale clicks only get
// the visual acknowledgement.
func (s *QuizService) SubmitAnswer(ctx context.Context, chatID int64, value, question, promptMessageID int) error {
	label, err := s.content.GetOptionText(ctx, question, value)
	if err != nil || label == "" {
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			s.getLogEntry().WithError(err).Warnf("option %d/%d label lookup failed", question, value)
		}
		label = fmt.Sprintf(TextOptionFallback, value)
	}

	ack := fmt.Sprintf(TextChosenAnswer, s.pickIcon(), EscapeHTML(label))
	if err := s.msg.ReplaceWithText(ctx, chatID, promptMessageID, ack); err != nil {
		s.getLogEntry().WithError(err).Warnf("answer acknowledgement failed for %d", chatID)
	}

	p, err := s.progress.Get(ctx, chatID)
	if errors.Is(err, db.ErrNotFound) {
		s.getLogEntry().Debugf("answer from %d without progress", chatID)
		return nil
	}
	if err != nil {
		return err
	}

	if !p.AcceptsPrompt(promptMessageID) {
		s.getLogEntry().Debugf("stale answer from %d on prompt %d (current %d)", chatID, promptMessageID, p.LastPromptMessageID)
		return nil
	}
	if question < 1 || question > s.cfg.Questions || value < 1 || value > s.cfg.Options {
		s.getLogEntry().Debugf("out of range answer %d/%d from %d", question, value, chatID)
		return nil
	}

	answers := p.Answers.Resize(s.cfg.Questions)
	answers[question-1] = value
	next := p.Step + 1
	finished := next > s.cfg.Questions
	step := next
	if finished {
		step = p.Step
	}

	applied, err := s.progress.RecordAnswer(ctx, chatID, promptMessageID, step, answers, finished)
	if err != nil {
		return err
	}
	if !applied {
		s.getLogEntry().Debugf("concurrent answer from %d on prompt %d lost the race", chatID, promptMessageID)
		return nil
	}

	if finished {
		s.complete(ctx, chatID, answers)
		return nil
	}
	return s.sendQuestion(ctx, chatID, next)
}

func (s *QuizService) sendQuestion(ctx context.Context, chatID int64, n int) error {
	q, err := s.content.GetQuestion(ctx, n)
	if err != nil {
		s.getLogEntry().WithError(err).Errorf("question %d unavailable", n)
		s.msg.SendHTML(ctx, chatID, TextQuestionFailed, nil)
		return nil
	}

	if q.PhotoID != "" {
		if _, err := s.msg.SendPhotoByID(ctx, chatID, q.PhotoID, "", nil); err != nil {
			s.getLogEntry().WithError(err).Warnf("question %d photo failed", n)
			s.msg.SendHTML(ctx, chatID, TextPhotoFailed, nil)
		}
	} else {
		s.msg.SendHTML(ctx, chatID, TextQuestionNoPhoto, nil)
	}

	prompt := q.Prompt
	if prompt == "" {
		prompt = TextQuestionPrompt
	}
	msg, err := s.msg.SendHTML(ctx, chatID, prompt, answerKeyboard(q, s.cfg.Options, s.cfg.ButtonColumns))
	if err != nil {
		return errors.Wrapf(err, "send question %d", n)
	}

	return s.progress.SetPromptMessageID(ctx, chatID, msg.ID)
}

// complete delivers the result bundle, hands off the follow-up and drops the record.
func (s *QuizService) complete(ctx context.Context, chatID int64, answers models.Answers) {
	result := ResolveResult(answers, s.cfg.Options)
	observability.RecordCompletion(strconv.Itoa(result))
	s.getLogEntry().Infof("chat %d finished with result %d (answers %v)", chatID, result, []int(answers))

	s.msg.SendHTML(ctx, chatID, TextResultDivider, nil)

	name, err := s.msg.DisplayName(ctx, chatID)
	if err != nil {
		s.getLogEntry().WithError(err).Debugf("display name for %d unavailable", chatID)
	}
	if _, err := s.msg.SendHTML(ctx, s.adminID, fmt.Sprintf(AdminResultNotice, FormatBold(name), result), nil); err != nil {
		s.getLogEntry().WithError(err).Warn("admin result notice failed")
	}

	if s.sendResult(ctx, chatID, result) {
		if err := s.followup.Schedule(ctx, chatID); err != nil {
			s.getLogEntry().WithError(err).Errorf("follow-up for %d not scheduled", chatID)
		}
	}

	// A restart during delivery already replaced the record with a fresh run.
	if err := s.progress.DeleteFinished(ctx, chatID); err != nil {
		s.getLogEntry().WithError(err).Errorf("progress cleanup for %d failed", chatID)
	}
}

func (s *QuizService) sendResult(ctx context.Context, chatID int64, result int) bool {
	res, err := s.content.GetResult(ctx, result)
	if err != nil {
		s.getLogEntry().WithError(err).Errorf("result %d unavailable", result)
		s.msg.SendHTML(ctx, chatID, TextResultNotFound, nil)
		return false
	}

	if res.PhotoID != "" {
		if _, err := s.msg.SendPhotoByID(ctx, chatID, res.PhotoID, "", nil); err != nil {
			s.msg.SendHTML(ctx, chatID, TextPhotoFailed, nil)
		}
	}
	if res.Text != "" {
		s.msg.SendHTML(ctx, chatID, res.Text, nil)
	}
	if res.DocumentID != "" {
		if _, err := s.msg.SendDocumentByID(ctx, chatID, res.DocumentID); err != nil {
			s.getLogEntry().WithError(err).Warnf("result %d document failed", result)
		}
	}
	return true
}

func (s *QuizService) getLogEntry() *log.Entry {
	return log.WithField("context", "quiz")
}
