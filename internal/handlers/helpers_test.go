package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/db"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/telegramtest"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testAdminID int64 = 999

type testEnv struct {
	tg       *telegramtest.Messenger
	handler  *BotHandler
	progress *db.ProgressRepository
	pending  *db.PendingRepository
	paid     *db.PaidUsersRepository
	approval *services.ApprovalService
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	dbx, err := sqlx.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	dbx.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(dbx))
	t.Cleanup(func() { dbx.Close() })

	queue := db.NewDBQueueForTest(dbx)
	t.Cleanup(queue.Close)

	tg := telegramtest.NewMessenger()
	errMgr := services.NewErrorManager(tg, testAdminID)
	msg := services.NewMessageManager(tg, errMgr)

	progress := db.NewProgressRepository(queue)
	pending := db.NewPendingRepository(queue)
	paid := db.NewPaidUsersRepository(queue)
	content := db.NewContentRepository(queue)
	require.NoError(t, content.Replace(context.Background(), testContent()))

	approval := services.NewApprovalService(pending, db.NewAdminMessagesRepository(queue), paid, msg, testAdminID)
	funnel := services.NewFunnelService(content, approval, msg, testAdminID)
	followup := services.NewDelayedFollowup(0, 0, funnel.SendFollowup)
	quiz := services.NewQuizService(progress, content, msg, followup, services.QuizConfig{
		Questions:     3,
		Options:       4,
		ButtonColumns: 2,
	}, testAdminID)
	cooldown := services.NewCooldownGuard(db.NewCooldownRepository(queue))

	opts.AdminID = testAdminID
	return &testEnv{
		tg:       tg,
		handler:  NewBotHandler(opts, errMgr, msg, quiz, funnel, approval, cooldown),
		progress: progress,
		pending:  pending,
		paid:     paid,
		approval: approval,
	}
}

func testContent() *models.Content {
	c := &models.Content{
		Welcome: &models.Welcome{PhotoID: "AgAD-welcome", Text1: "Привіт!", Text2: "Почнемо?"},
		Followup: []models.FollowupMessage{
			{SortOrder: 1, Content: "followup one"},
		},
		Funnels: []models.FunnelBlock{
			{Funnel: models.FunnelAfterPayment, SortOrder: 1, Type: models.BlockTypeText, Content: "Що всередині"},
			{Funnel: models.FunnelAfterPayment, SortOrder: 2, Type: models.BlockTypeButton, Content: "Готова?", ButtonText: "Приєднатись"},
			{Funnel: models.FunnelAfterPaymentFollowup, SortOrder: 1, Type: models.BlockTypeText, Content: "Реквізити"},
		},
	}
	for n := 1; n <= 3; n++ {
		q := models.Question{Number: n, PhotoID: fmt.Sprintf("AgAD-q%d", n)}
		for o := 1; o <= 4; o++ {
			q.Options = append(q.Options, models.QuestionOption{Number: o, Text: fmt.Sprintf("q%d option %d", n, o)})
		}
		c.Questions = append(c.Questions, q)
	}
	for r := 1; r <= 4; r++ {
		c.Results = append(c.Results, models.Result{
			Number:     r,
			PhotoID:    fmt.Sprintf("AgAD-r%d", r),
			Text:       fmt.Sprintf("Архетип %d", r),
			DocumentID: fmt.Sprintf("BQAC-r%d", r),
		})
	}
	return c
}

func textUpdate(chatID int64, text string) *tgmodels.Update {
	return &tgmodels.Update{
		ID: 1,
		Message: &tgmodels.Message{
			ID:   10,
			Chat: tgmodels.Chat{ID: chatID, FirstName: "Оля"},
			From: &tgmodels.User{ID: chatID, FirstName: "Оля"},
			Text: text,
		},
	}
}

func photoUpdate(chatID int64, fileIDs ...string) *tgmodels.Update {
	update := textUpdate(chatID, "")
	for _, id := range fileIDs {
		update.Message.Photo = append(update.Message.Photo, tgmodels.PhotoSize{FileID: id})
	}
	return update
}

func callbackUpdate(fromID, chatID int64, messageID int, data string) *tgmodels.Update {
	return &tgmodels.Update{
		ID: 2,
		CallbackQuery: &tgmodels.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d-%s", fromID, data),
			From: tgmodels.User{ID: fromID},
			Data: data,
			Message: tgmodels.MaybeInaccessibleMessage{
				Type: tgmodels.MaybeInaccessibleMessageTypeMessage,
				Message: &tgmodels.Message{
					ID:   messageID,
					Chat: tgmodels.Chat{ID: chatID},
				},
			},
		},
	}
}

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
