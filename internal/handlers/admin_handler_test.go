package handlers

import (
	"context"
	"testing"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitScreenshot(t *testing.T, env *testEnv, chatID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.approval.MarkPending(ctx, chatID))
	env.handler.HandleUpdate(ctx, nil, photoUpdate(chatID, "AgAD-shot"))
}

func TestNonAdminDecisionIgnored(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	const chatID int64 = 201
	submitScreenshot(t, env, chatID)

	env.handler.HandleUpdate(ctx, nil, callbackUpdate(555, 555, 1, "approve_201"))

	pending, err := env.pending.Exists(ctx, chatID)
	require.NoError(t, err)
	assert.True(t, pending)

	count, err := env.paid.Count(ctx, chatID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NotContains(t, env.tg.Texts(chatID), services.TextPaymentApproved)
	assert.Len(t, env.tg.CallsOf("answerCallbackQuery"), 1)
}

func TestAdminApproveAppliesOnce(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	const chatID int64 = 202
	submitScreenshot(t, env, chatID)

	env.handler.HandleUpdate(ctx, nil, callbackUpdate(testAdminID, testAdminID, 1, "approve_202"))
	env.handler.HandleUpdate(ctx, nil, callbackUpdate(testAdminID, testAdminID, 1, "approve_202"))

	count, err := env.paid.Count(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pending, err := env.pending.Exists(ctx, chatID)
	require.NoError(t, err)
	assert.False(t, pending)

	approvals := 0
	for _, text := range env.tg.Texts(chatID) {
		if text == services.TextPaymentApproved {
			approvals++
		}
	}
	assert.Equal(t, 1, approvals)
	assert.Contains(t, env.tg.Texts(testAdminID), services.AdminDuplicateAction)
	assert.Len(t, env.tg.CallsOf("deleteMessage"), 1)
}

func TestAdminReject(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	const chatID int64 = 203
	submitScreenshot(t, env, chatID)

	env.handler.HandleUpdate(ctx, nil, callbackUpdate(testAdminID, testAdminID, 1, "reject_203"))

	pending, err := env.pending.Exists(ctx, chatID)
	require.NoError(t, err)
	assert.False(t, pending)

	count, err := env.paid.Count(ctx, chatID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, env.tg.Texts(chatID), services.TextPaymentRejected)
}

func TestAdminDecisionForUnknownChat(t *testing.T) {
	env := newTestEnv(t, Options{})

	env.handler.HandleUpdate(context.Background(), nil, callbackUpdate(testAdminID, testAdminID, 1, "reject_404"))

	assert.Contains(t, env.tg.Texts(testAdminID), services.AdminDuplicateAction)
	assert.Empty(t, env.tg.CallsTo(404))
}
