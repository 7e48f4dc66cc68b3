package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/telegramtest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testAdminID int64 = 999

type testEnv struct {
	queue    *db.DBQueue
	tg       *telegramtest.Messenger
	msg      *MessageManager
	progress *db.ProgressRepository
	pending  *db.PendingRepository
	reviews  *db.AdminMessagesRepository
	paid     *db.PaidUsersRepository
	content  *db.ContentRepository
	cooldown *CooldownGuard
	approval *ApprovalService
	funnel   *FunnelService
	quiz     *QuizService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbx, err := sqlx.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	dbx.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(dbx))
	t.Cleanup(func() { dbx.Close() })

	queue := db.NewDBQueueForTest(dbx)
	t.Cleanup(queue.Close)

	tg := telegramtest.NewMessenger()
	msg := NewMessageManager(tg, NewErrorManager(tg, testAdminID))

	env := &testEnv{
		queue:    queue,
		tg:       tg,
		msg:      msg,
		progress: db.NewProgressRepository(queue),
		pending:  db.NewPendingRepository(queue),
		reviews:  db.NewAdminMessagesRepository(queue),
		paid:     db.NewPaidUsersRepository(queue),
		content:  db.NewContentRepository(queue),
	}
	env.cooldown = NewCooldownGuard(db.NewCooldownRepository(queue))
	env.approval = NewApprovalService(env.pending, env.reviews, env.paid, msg, testAdminID)
	env.funnel = NewFunnelService(env.content, env.approval, msg, testAdminID)
	followup := NewDelayedFollowup(0, 0, env.funnel.SendFollowup)
	env.quiz = NewQuizService(env.progress, env.content, msg, followup, QuizConfig{
		Questions:     7,
		Options:       5,
		ButtonColumns: 1,
	}, testAdminID)
	env.quiz.pickIcon = func() string { return "🧺" }

	require.NoError(t, env.content.Replace(context.Background(), testContent()))
	return env
}

func testContent() *models.Content {
	c := &models.Content{
		Welcome: &models.Welcome{PhotoID: "AgAD-welcome", Text1: "Привіт!", Text2: "Почнемо?"},
		Followup: []models.FollowupMessage{
			{SortOrder: 1, Content: "followup one"},
			{SortOrder: 2, Content: "followup two"},
		},
		Funnels: []models.FunnelBlock{
			{Funnel: models.FunnelAfterPayment, SortOrder: 1, Type: models.BlockTypeText, Content: "Що всередині"},
			{Funnel: models.FunnelAfterPayment, SortOrder: 2, Type: models.BlockTypeVideo, Content: "DQAC-note"},
			{Funnel: models.FunnelAfterPayment, SortOrder: 3, Type: models.BlockTypeButton, Content: "Готова?", ButtonText: "Приєднатись до кімнати"},
			{Funnel: models.FunnelAfterPaymentFollowup, SortOrder: 1, Type: models.BlockTypeText, Content: "Реквізити"},
			{Funnel: models.FunnelAfterPaymentFollowup, SortOrder: 2, Type: models.BlockTypeButton, Content: "Ще раз", ButtonText: "Показати оплату"},
		},
	}
	for n := 1; n <= 7; n++ {
		q := models.Question{Number: n, PhotoID: fmt.Sprintf("AgAD-q%d", n)}
		for o := 1; o <= 5; o++ {
			q.Options = append(q.Options, models.QuestionOption{Number: o, Text: fmt.Sprintf("q%d option %d", n, o)})
		}
		c.Questions = append(c.Questions, q)
	}
	for r := 1; r <= 5; r++ {
		c.Results = append(c.Results, models.Result{
			Number:     r,
			PhotoID:    fmt.Sprintf("AgAD-r%d", r),
			Text:       fmt.Sprintf("Архетип %d", r),
			DocumentID: fmt.Sprintf("BQAC-r%d", r),
		})
	}
	return c
}

// lastPrompt returns the most recent question prompt sent to chatID.
func lastPrompt(t *testing.T, tg *telegramtest.Messenger, chatID int64) telegramtest.Call {
	t.Helper()
	calls := tg.CallsTo(chatID)
	for i := len(calls) - 1; i >= 0; i-- {
		data := calls[i].CallbackData()
		if calls[i].Method == "sendMessage" && len(data) > 0 && strings.HasPrefix(data[0], "answer_") {
			return calls[i]
		}
	}
	t.Fatalf("no prompt sent to %d", chatID)
	return telegramtest.Call{}
}

func containsText(texts []string, want string) bool {
	for _, text := range texts {
		if strings.Contains(text, want) {
			return true
		}
	}
	return false
}
