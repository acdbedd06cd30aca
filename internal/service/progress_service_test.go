package service

import (
	"testing"
	"time"

	"learnmate_backend/internal/model"
)

func attemptAt(t time.Time, score, total int) model.QuizAttempt {
	return model.QuizAttempt{
		BaseModel:      model.BaseModel{CreatedAt: t},
		Score:          score,
		TotalQuestions: total,
	}
}

func TestWeeklyBucketsGroupsByWeek(t *testing.T) {
	// 2026-08-31 是周一
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	attempts := []model.QuizAttempt{
		attemptAt(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), 4, 5),  // 本周
		attemptAt(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC), 3, 5),  // 上周（周二）
		attemptAt(time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC), 5, 5),  // 上周（周日）
		attemptAt(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), 1, 5),   // 超出窗口
	}

	points := weeklyBuckets(attempts, now, 4)
	if len(points) != 4 {
		t.Fatalf("len = %d, want 4", len(points))
	}

	last := points[3]
	if !last.WeekStart.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last week start = %v", last.WeekStart)
	}
	if last.Quizzes != 1 || last.AverageScore != 80 {
		t.Errorf("this week = %+v", last)
	}

	prev := points[2]
	if prev.Quizzes != 2 {
		t.Errorf("prev week quizzes = %d, want 2", prev.Quizzes)
	}
	// (60 + 100) / 2
	if prev.AverageScore != 80 {
		t.Errorf("prev week avg = %v, want 80", prev.AverageScore)
	}

	if points[0].Quizzes != 0 || points[1].Quizzes != 0 {
		t.Error("empty weeks should stay zero")
	}
}

func TestWeeklyBucketsEmptyInput(t *testing.T) {
	points := weeklyBuckets(nil, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 3)
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}
	for _, p := range points {
		if p.Quizzes != 0 || p.AverageScore != 0 {
			t.Errorf("expected empty point, got %+v", p)
		}
	}
}

func TestWeeklyBucketsMixedLocations(t *testing.T) {
	// 记录时区与服务器时区不一致时（DSN loc 改动、只读副本返回 UTC），
	// 同一周的记录仍要归入同一个桶
	cst := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 8, 31, 18, 0, 0, 0, cst) // 周一 18:00 CST
	attempts := []model.QuizAttempt{
		attemptAt(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), 3, 5), // 同一时刻的 UTC 表示
		attemptAt(time.Date(2026, 8, 25, 9, 0, 0, 0, cst), 4, 5),       // 上周，CST 记录
	}

	points := weeklyBuckets(attempts, now, 2)
	if points[1].Quizzes != 1 {
		t.Errorf("this-week Quizzes = %d, want 1", points[1].Quizzes)
	}
	if points[0].Quizzes != 1 {
		t.Errorf("prev-week Quizzes = %d, want 1", points[0].Quizzes)
	}
}

func TestWeekStartSundayBelongsToSameWeek(t *testing.T) {
	sunday := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := weekStart(sunday)
	want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("weekStart(sunday) = %v, want %v", got, want)
	}
}
