package db

import (
	"context"
	"errors"
	"testing"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
)

func sampleContent() *models.Content {
	return &models.Content{
		Welcome: &models.Welcome{PhotoID: "AgAD-welcome", Text1: "Привіт", Text2: "Готова?", ButtonText: "Почати"},
		Questions: []models.Question{
			{
				Number:  1,
				PhotoID: "AgAD-q1",
				Prompt:  "Перше питання",
				Options: []models.QuestionOption{
					{Number: 2, Text: "Друге"},
					{Number: 1, Text: "Перше"},
				},
			},
		},
		Results: []models.Result{
			{Number: 1, PhotoID: "AgAD-r1", Text: "Результат", DocumentID: "BQAC-doc"},
		},
		Followup: []models.FollowupMessage{
			{SortOrder: 2, Content: "second"},
			{SortOrder: 1, Content: "first"},
		},
		Funnels: []models.FunnelBlock{
			{Funnel: models.FunnelAfterPayment, SortOrder: 1, Type: models.BlockTypeText, Content: "Оплата"},
			{Funnel: models.FunnelAfterPayment, SortOrder: 2, Type: models.BlockTypeButton, Content: "https://pay.example", ButtonText: "Оплатити"},
			{Funnel: models.FunnelAfterPaymentFollowup, SortOrder: 1, Type: models.BlockTypeVideo, Content: "DQAC-note"},
		},
	}
}

func TestContentReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(newTestQueue(t))

	if _, err := repo.GetWelcome(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := repo.Replace(ctx, sampleContent()); err != nil {
		t.Fatal(err)
	}

	w, err := repo.GetWelcome(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if w.Text1 != "Привіт" || w.ButtonText != "Почати" {
		t.Fatalf("unexpected welcome %+v", w)
	}

	q, err := repo.GetQuestion(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Options) != 2 || q.Options[0].Number != 1 || q.OptionText(2) != "Друге" {
		t.Fatalf("unexpected question %+v", q)
	}

	text, err := repo.GetOptionText(ctx, 1, 1)
	if err != nil || text != "Перше" {
		t.Fatalf("option text: %q %v", text, err)
	}
	if _, err := repo.GetOptionText(ctx, 1, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing option, got %v", err)
	}

	res, err := repo.GetResult(ctx, 1)
	if err != nil || res.DocumentID != "BQAC-doc" {
		t.Fatalf("result: %+v %v", res, err)
	}
	if _, err := repo.GetResult(ctx, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing result, got %v", err)
	}

	followup, err := repo.GetFollowup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(followup) != 2 || followup[0].Content != "first" {
		t.Fatalf("unexpected followup %+v", followup)
	}

	blocks, err := repo.GetFunnel(ctx, models.FunnelAfterPayment)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 || blocks[1].Type != models.BlockTypeButton || blocks[1].ButtonText != "Оплатити" {
		t.Fatalf("unexpected funnel %+v", blocks)
	}
}

func TestContentReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(newTestQueue(t))

	if err := repo.Replace(ctx, sampleContent()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Replace(ctx, &models.Content{}); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetQuestion(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected question to be cleared, got %v", err)
	}
	blocks, err := repo.GetFunnel(ctx, models.FunnelAfterPayment)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected empty funnel, got %+v", blocks)
	}
}
