package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"pgregory.net/rapid"
)

func TestProgressCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestQueue(t))

	created, err := repo.CreateIfAbsent(ctx, models.NewUserProgress(1, 7))
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected first create to insert")
	}

	created, err = repo.CreateIfAbsent(ctx, models.NewUserProgress(1, 7))
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected second create to be a no-op")
	}

	progress, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if progress.Step != 1 || len(progress.Answers) != 7 || progress.Finished {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestProgressGetMissing(t *testing.T) {
	repo := NewProgressRepository(newTestQueue(t))
	_, err := repo.Get(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressRecordAnswerRequiresCurrentPrompt(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestQueue(t))

	if _, err := repo.CreateIfAbsent(ctx, models.NewUserProgress(5, 3)); err != nil {
		t.Fatal(err)
	}

	ok, err := repo.RecordAnswer(ctx, 5, 0, 2, models.Answers{1, 0, 0}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("answer accepted without a prompt")
	}

	if err := repo.SetPromptMessageID(ctx, 5, 100); err != nil {
		t.Fatal(err)
	}

	ok, err = repo.RecordAnswer(ctx, 5, 99, 2, models.Answers{1, 0, 0}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("answer accepted for a stale prompt")
	}

	ok, err = repo.RecordAnswer(ctx, 5, 100, 2, models.Answers{4, 0, 0}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("answer rejected for the current prompt")
	}

	progress, err := repo.Get(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if progress.Step != 2 || progress.Answers[0] != 4 || progress.LastPromptMessageID != 0 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestProgressFinishedRejectsPrompt(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestQueue(t))

	if _, err := repo.CreateIfAbsent(ctx, models.NewUserProgress(6, 1)); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetPromptMessageID(ctx, 6, 10); err != nil {
		t.Fatal(err)
	}
	ok, err := repo.RecordAnswer(ctx, 6, 10, 2, models.Answers{3}, true)
	if err != nil || !ok {
		t.Fatalf("final answer: ok=%v err=%v", ok, err)
	}

	if err := repo.SetPromptMessageID(ctx, 6, 11); err != nil {
		t.Fatal(err)
	}
	progress, err := repo.Get(ctx, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !progress.Finished || progress.LastPromptMessageID != 0 {
		t.Fatalf("finished record changed: %+v", progress)
	}
}

// Of any number of concurrent clicks on one prompt exactly one wins.
func TestProgressRecordAnswerSingleWinner_Property(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestQueue(t))

	var chatID int64
	rapid.Check(t, func(t *rapid.T) {
		chatID++
		clicks := rapid.IntRange(1, 8).Draw(t, "clicks")
		prompt := rapid.IntRange(1, 1<<20).Draw(t, "prompt")

		if _, err := repo.CreateIfAbsent(ctx, models.NewUserProgress(chatID, 7)); err != nil {
			t.Fatal(err)
		}
		if err := repo.SetPromptMessageID(ctx, chatID, prompt); err != nil {
			t.Fatal(err)
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < clicks; i++ {
			wg.Add(1)
			go func(option int) {
				defer wg.Done()
				answers := models.NewAnswers(7)
				answers[0] = option
				ok, err := repo.RecordAnswer(ctx, chatID, prompt, 2, answers, false)
				if err == nil && ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i%5 + 1)
		}
		wg.Wait()

		if wins != 1 {
			t.Fatalf("expected exactly one winner, got %d", wins)
		}
		progress, err := repo.Get(ctx, chatID)
		if err != nil {
			t.Fatal(err)
		}
		if progress.Step != 2 {
			t.Fatalf("expected step 2, got %d", progress.Step)
		}
	})
}

func TestProgressDeleteFinished(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(newTestQueue(t))

	if _, err := repo.CreateIfAbsent(ctx, models.NewUserProgress(9, 1)); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteFinished(ctx, 9); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, 9); err != nil {
		t.Fatalf("run in progress was deleted: %v", err)
	}

	if err := repo.SetPromptMessageID(ctx, 9, 10); err != nil {
		t.Fatal(err)
	}
	if ok, err := repo.RecordAnswer(ctx, 9, 10, 1, models.Answers{2}, true); err != nil || !ok {
		t.Fatalf("final answer: ok=%v err=%v", ok, err)
	}
	if err := repo.DeleteFinished(ctx, 9); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteFinished(ctx, 9); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
