package service

import (
	"context"

	"learnmate_backend/internal/repository"
)

// QuoteService 每周励志短句：优先用缓存，过期后由 AI 重新生成
type QuoteService struct {
	cache     *repository.QuoteCache
	aiService *AIService
}

func NewQuoteService(cache *repository.QuoteCache, aiService *AIService) *QuoteService {
	return &QuoteService{cache: cache, aiService: aiService}
}

func (s *QuoteService) WeeklyQuote(ctx context.Context) (string, error) {
	quote, err := s.cache.Get(ctx)
	if err == nil && quote != "" {
		return quote, nil
	}

	quote, err = s.aiService.GenerateQuote(ctx)
	if err != nil {
		return "", err
	}
	// 缓存失败不影响返回
	_ = s.cache.Set(ctx, quote)
	return quote, nil
}
