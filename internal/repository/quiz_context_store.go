package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnmate_backend/internal/quiz"

	"github.com/go-redis/redis/v8"
)

// QuizContext 最近一次测验的概要，AI 助教回答时作为上下文注入
type QuizContext struct {
	CourseName     string                `json:"courseName"`
	Difficulty     string                `json:"difficulty"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	Questions      []quiz.ResultQuestion `json:"questions"`
	FinishedAt     time.Time             `json:"finishedAt"`
}

// QuizContextStore 按用户缓存测验上下文，带 TTL 自动过期
type QuizContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuizContextStore(client *redis.Client, ttl time.Duration) *QuizContextStore {
	return &QuizContextStore{client: client, ttl: ttl}
}

func key(userID uint) string {
	return fmt.Sprintf("quiz:context:%d", userID)
}

func (s *QuizContextStore) Save(ctx context.Context, userID uint, qc *QuizContext) error {
	data, err := json.Marshal(qc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(userID), data, s.ttl).Err()
}

// Load 未命中时返回 (nil, nil)
func (s *QuizContextStore) Load(ctx context.Context, userID uint) (*QuizContext, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var qc QuizContext
	if err := json.Unmarshal(data, &qc); err != nil {
		return nil, err
	}
	return &qc, nil
}

func (s *QuizContextStore) Delete(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, key(userID)).Err()
}
