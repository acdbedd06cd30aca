package repository

import (
	"context"
	"testing"
	"time"

	"learnmate_backend/internal/quiz"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestStore(t *testing.T, ttl time.Duration) (*QuizContextStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQuizContextStore(client, ttl), mr
}

func TestQuizContextRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	answer := "B"
	in := &QuizContext{
		CourseName:     "Go Fundamentals",
		Difficulty:     "medium",
		Score:          2,
		TotalQuestions: 3,
		Questions: []quiz.ResultQuestion{
			{Question: "What does := do?", UserAnswer: &answer, IsCorrect: true},
			{Question: "What is a goroutine?", UserAnswer: nil, IsCorrect: false},
		},
	}
	if err := store.Save(ctx, 7, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out == nil {
		t.Fatal("expected context, got nil")
	}
	if out.CourseName != in.CourseName || out.Score != in.Score {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if len(out.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(out.Questions))
	}
	if out.Questions[1].UserAnswer != nil {
		t.Error("unanswered question should stay nil")
	}
}

func TestQuizContextMissReturnsNil(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	out, err := store.Load(context.Background(), 99)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil on miss, got %+v", out)
	}
}

func TestQuizContextExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, 5, &QuizContext{CourseName: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	out, err := store.Load(ctx, 5)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != nil {
		t.Error("expected context to expire")
	}
}

func TestQuizContextDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, 3, &QuizContext{CourseName: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	out, err := store.Load(ctx, 3)
	if err != nil || out != nil {
		t.Errorf("expected miss after delete, got %+v, %v", out, err)
	}
}
