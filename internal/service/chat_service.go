package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnmate_backend/internal/model"
	"learnmate_backend/internal/repository"
	"learnmate_backend/internal/util"

	"gorm.io/gorm"
)

// ChatService AI 助教对话：注入最近测验上下文，维护多轮历史
type ChatService struct {
	chatRepo    *repository.ChatRepository
	aiService   *AIService
	quizService *QuizService
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	aiService *AIService,
	quizService *QuizService,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		aiService:   aiService,
		quizService: quizService,
	}
}

type AssistInput struct {
	Prompt string `json:"prompt" binding:"required"`
	ChatID string `json:"chatId"`
	// 客户端可直接带上测验上下文文本；为空时回退到服务端缓存的最近测验
	QuizContext string `json:"quizContext"`
}

// Ask 阻塞式问答并把两条消息追加进对话历史。
// chatId 为空时新建对话，标题取问题前 50 个字符。
func (s *ChatService) Ask(ctx context.Context, userID uint, input AssistInput) (string, *model.ChatHistory, error) {
	chat, history, err := s.loadChat(userID, input.ChatID)
	if err != nil {
		return "", nil, err
	}

	background := input.QuizContext
	if background == "" {
		background = s.quizBackground(ctx, userID)
	}
	answer, err := s.aiService.Chat(ctx, input.Prompt, background, history)
	if err != nil {
		return "", nil, err
	}

	chat, err = s.appendExchange(userID, chat, input.Prompt, answer)
	if err != nil {
		return "", nil, err
	}
	return answer, chat, nil
}

// AskStream 流式问答。返回分片通道、错误通道和完成回调，
// 调用方在流结束后把完整回答传入回调以落库。
func (s *ChatService) AskStream(ctx context.Context, userID uint, input AssistInput) (<-chan string, <-chan error, func(full string) (*model.ChatHistory, error), error) {
	chat, history, err := s.loadChat(userID, input.ChatID)
	if err != nil {
		return nil, nil, nil, err
	}

	background := input.QuizContext
	if background == "" {
		background = s.quizBackground(ctx, userID)
	}
	out, errChan := s.aiService.ChatStream(ctx, input.Prompt, background, history)

	finalize := func(full string) (*model.ChatHistory, error) {
		return s.appendExchange(userID, chat, input.Prompt, full)
	}
	return out, errChan, finalize, nil
}

func (s *ChatService) loadChat(userID uint, chatID string) (*model.ChatHistory, []AIChatMessage, error) {
	if chatID == "" {
		return nil, nil, nil
	}
	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrChatNotFound
		}
		return nil, nil, err
	}
	if chat.UserID != userID {
		return nil, nil, util.ErrForbidden
	}

	history := make([]AIChatMessage, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		history = append(history, AIChatMessage{Role: m.Role, Content: m.Content})
	}
	return chat, history, nil
}

func (s *ChatService) appendExchange(userID uint, chat *model.ChatHistory, prompt, answer string) (*model.ChatHistory, error) {
	if chat == nil {
		chat = &model.ChatHistory{
			UserID: userID,
			Title:  chatTitle(prompt),
		}
		chat.Messages = []model.ChatMessage{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: answer},
		}
		if err := s.chatRepo.Create(chat); err != nil {
			return nil, err
		}
		return chat, nil
	}

	chat.Messages = append(chat.Messages,
		model.ChatMessage{Role: "user", Content: prompt},
		model.ChatMessage{Role: "assistant", Content: answer},
	)
	if err := s.chatRepo.Update(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// quizBackground 最近一次测验的概要文本，取不到时返回空串
func (s *ChatService) quizBackground(ctx context.Context, userID uint) string {
	qc, err := s.quizService.LastQuizContext(ctx, userID)
	if err != nil || qc == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "学生最近完成了课程《%s》的一次 %s 难度测验，得分 %d/%d。",
		qc.CourseName, qc.Difficulty, qc.Score, qc.TotalQuestions)
	wrong := 0
	for _, q := range qc.Questions {
		if !q.IsCorrect {
			wrong++
			if wrong <= 3 {
				fmt.Fprintf(&b, "\n答错的题目：%s", q.Question)
			}
		}
	}
	return b.String()
}

func chatTitle(prompt string) string {
	runes := []rune(strings.TrimSpace(prompt))
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return string(runes)
}

type ChatHistoryInput struct {
	Title    string              `json:"title"`
	Messages []model.ChatMessage `json:"messages"`
}

// Create 客户端整段导入一份对话（兼容本地会话同步）
func (s *ChatService) Create(userID uint, input ChatHistoryInput) (*model.ChatHistory, error) {
	title := input.Title
	if title == "" && len(input.Messages) > 0 {
		title = chatTitle(input.Messages[0].Content)
	}
	chat := &model.ChatHistory{
		UserID:   userID,
		Title:    title,
		Messages: input.Messages,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Update 重命名或整体替换消息
func (s *ChatService) Update(userID uint, chatID string, input ChatHistoryInput) (*model.ChatHistory, error) {
	chat, err := s.Get(userID, chatID)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		chat.Title = input.Title
	}
	if input.Messages != nil {
		chat.Messages = input.Messages
	}
	if err := s.chatRepo.Update(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) List(userID uint) ([]model.ChatHistory, error) {
	return s.chatRepo.FindByUser(userID)
}

func (s *ChatService) Get(userID uint, chatID string) (*model.ChatHistory, error) {
	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChatNotFound
		}
		return nil, err
	}
	if chat.UserID != userID {
		return nil, util.ErrForbidden
	}
	return chat, nil
}

func (s *ChatService) Delete(userID uint, chatID string) error {
	if _, err := s.Get(userID, chatID); err != nil {
		return err
	}
	return s.chatRepo.Delete(chatID, userID)
}
