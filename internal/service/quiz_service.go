package service

import (
	"context"
	"sync"
	"time"

	"learnmate_backend/internal/config"
	"learnmate_backend/internal/model"
	"learnmate_backend/internal/quiz"
	"learnmate_backend/internal/repository"
	"learnmate_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizService 测验会话编排：生成题目、驱动会话状态机、落库结果。
// 每个用户同一时刻只有一个活动会话，新会话顶掉旧会话。
type QuizService struct {
	quizRepo     *repository.QuizRepository
	courseRepo   *repository.CourseRepository
	contextStore *repository.QuizContextStore
	aiService    *AIService
	manager      *quiz.Manager
	cfg          *config.Config
	logger       *zap.Logger

	mu   sync.Mutex
	meta map[uint]*sessionMeta
}

// sessionMeta 会话之外的业务归属，结果落库只执行一次
type sessionMeta struct {
	sessionID  string
	courseID   uint
	courseName string
	difficulty string
	persisted  bool
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	contextStore *repository.QuizContextStore,
	aiService *AIService,
	cfg *config.Config,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		courseRepo:   courseRepo,
		contextStore: contextStore,
		aiService:    aiService,
		manager:      quiz.NewManager(),
		cfg:          cfg,
		logger:       logger,
		meta:         make(map[uint]*sessionMeta),
	}
}

type StartQuizInput struct {
	CourseID           uint   `json:"courseId" binding:"required"`
	Difficulty         string `json:"difficulty"`
	QuestionCount      int    `json:"questionCount"`
	SecondsPerQuestion int    `json:"secondsPerQuestion"`
}

// StartSession 生成题目并开启新会话，替换该用户的旧会话
func (s *QuizService) StartSession(ctx context.Context, userID uint, input StartQuizInput) (*quiz.Snapshot, error) {
	course, err := s.courseRepo.FindByID(input.CourseID)
	if err != nil {
		return nil, err
	}

	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	count := input.QuestionCount
	if count <= 0 {
		count = 5
	}
	if count > s.cfg.Quiz.MaxQuestions {
		count = s.cfg.Quiz.MaxQuestions
	}
	seconds := input.SecondsPerQuestion
	if seconds <= 0 {
		seconds = s.cfg.Quiz.DefaultSecondsPerQ
	}

	questions, err := s.aiService.GenerateQuiz(ctx, course.Name, difficulty, count)
	if err != nil {
		return nil, err
	}

	session, err := quiz.NewSession(uuid.New().String(), questions, quiz.Config{
		Difficulty:         difficulty,
		SecondsPerQuestion: seconds,
	})
	if err != nil {
		return nil, err
	}

	s.manager.Put(userID, session)
	s.mu.Lock()
	s.meta[userID] = &sessionMeta{
		sessionID:  session.ID(),
		courseID:   course.ID,
		courseName: course.Name,
		difficulty: difficulty,
	}
	s.mu.Unlock()

	monitoring.ActiveQuizSessions.Set(float64(s.manager.Count()))

	snap := session.Snapshot()
	return &snap, nil
}

// Snapshot 当前会话视图；观察到终态时顺带触发一次结果落库
func (s *QuizService) Snapshot(userID uint) (*quiz.Snapshot, error) {
	session, ok := s.manager.Get(userID)
	if !ok {
		return nil, quiz.ErrSessionNotFound
	}
	snap := session.Snapshot()
	if session.State() == quiz.Completed {
		s.emitResult(userID, session)
	}
	return &snap, nil
}

// Answer 当前题作答
func (s *QuizService) Answer(userID uint, label string) (*quiz.Snapshot, error) {
	return s.apply(userID, func(session *quiz.Session) error {
		return session.SelectAnswer(label)
	})
}

// Next 推进到下一题；在最后一题上等价交卷
func (s *QuizService) Next(userID uint) (*quiz.Snapshot, error) {
	return s.apply(userID, func(session *quiz.Session) error {
		return session.Advance()
	})
}

// Previous 回看上一题，冻结展示
func (s *QuizService) Previous(userID uint) (*quiz.Snapshot, error) {
	return s.apply(userID, func(session *quiz.Session) error {
		return session.Retreat()
	})
}

// Finish 交卷
func (s *QuizService) Finish(userID uint) (*quiz.Snapshot, error) {
	return s.apply(userID, func(session *quiz.Session) error {
		return session.Finish()
	})
}

func (s *QuizService) apply(userID uint, op func(*quiz.Session) error) (*quiz.Snapshot, error) {
	session, ok := s.manager.Get(userID)
	if !ok {
		return nil, quiz.ErrSessionNotFound
	}
	if err := op(session); err != nil {
		return nil, err
	}
	if session.State() == quiz.Completed {
		s.emitResult(userID, session)
	}
	snap := session.Snapshot()
	return &snap, nil
}

// Dispose 用户离开测验页，拆除会话并作废挂起的回调
func (s *QuizService) Dispose(userID uint) {
	s.manager.Remove(userID)
	s.mu.Lock()
	delete(s.meta, userID)
	s.mu.Unlock()
	monitoring.ActiveQuizSessions.Set(float64(s.manager.Count()))
}

// emitResult 终态结果落库与上下文缓存，整个会话只执行一次。
// 持久化失败只记日志，不影响用户拿到结果。
func (s *QuizService) emitResult(userID uint, session *quiz.Session) {
	s.mu.Lock()
	meta, ok := s.meta[userID]
	if !ok || meta.persisted || meta.sessionID != session.ID() {
		s.mu.Unlock()
		return
	}
	meta.persisted = true
	s.mu.Unlock()

	result, err := session.Result()
	if err != nil {
		return
	}
	timeSpent := session.TimeSpent()
	monitoring.QuizSessionsCompleted.Inc()

	go func() {
		attempt := &model.QuizAttempt{
			UserID:          userID,
			CourseID:        meta.courseID,
			CourseName:      meta.courseName,
			Score:           result.Score,
			TotalQuestions:  result.TotalQuestions,
			Difficulty:      meta.difficulty,
			TimeSpentMs:     timeSpent.Milliseconds(),
			TimePerQuestion: session.Snapshot().Config.SecondsPerQuestion,
			Questions:       attemptQuestions(result),
		}
		if err := s.quizRepo.CreateAttempt(attempt); err != nil {
			s.logger.Error("failed to persist quiz result",
				zap.Uint("userId", userID),
				zap.String("sessionId", meta.sessionID),
				zap.Error(err),
			)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		qc := &repository.QuizContext{
			CourseName:     meta.courseName,
			Difficulty:     meta.difficulty,
			Score:          result.Score,
			TotalQuestions: result.TotalQuestions,
			Questions:      result.Questions,
			FinishedAt:     time.Now(),
		}
		if err := s.contextStore.Save(ctx, userID, qc); err != nil {
			s.logger.Warn("failed to cache quiz context",
				zap.Uint("userId", userID),
				zap.Error(err),
			)
		}
	}()
}

func attemptQuestions(result *quiz.Result) []model.AttemptQuestion {
	rows := make([]model.AttemptQuestion, len(result.Questions))
	for i, q := range result.Questions {
		rows[i] = model.AttemptQuestion{
			Question: q.Question,
			Answer:   q.UserAnswer,
			Correct:  q.IsCorrect,
		}
	}
	return rows
}

type SaveResultInput struct {
	CourseID        uint                    `json:"courseId" binding:"required"`
	CourseName      string                  `json:"courseName"`
	Score           int                     `json:"score"`
	TotalQuestions  int                     `json:"totalQuestions" binding:"required"`
	Difficulty      string                  `json:"difficulty"`
	TimeSpentMs     int64                   `json:"timeSpent"`
	TimePerQuestion int                     `json:"timePerQuestion"`
	Questions       []model.AttemptQuestion `json:"questions"`
}

// SaveResult 客户端直接上报一次测验结果（兼容离线/本地计分场景）
func (s *QuizService) SaveResult(userID uint, input SaveResultInput) (*model.QuizAttempt, error) {
	attempt := &model.QuizAttempt{
		UserID:          userID,
		CourseID:        input.CourseID,
		CourseName:      input.CourseName,
		Score:           input.Score,
		TotalQuestions:  input.TotalQuestions,
		Difficulty:      input.Difficulty,
		TimeSpentMs:     input.TimeSpentMs,
		TimePerQuestion: input.TimePerQuestion,
		Questions:       input.Questions,
	}
	if err := s.quizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// History 用户的测验历史
func (s *QuizService) History(userID uint, limit int) ([]model.QuizAttempt, error) {
	return s.quizRepo.FindAttemptsByUser(userID, limit)
}

// Stats 测验页头部的聚合统计
func (s *QuizService) Stats(userID uint) (*model.QuizStats, error) {
	return s.quizRepo.Stats(userID)
}

// DeleteAttempt 删除一条历史记录
func (s *QuizService) DeleteAttempt(userID, attemptID uint) error {
	return s.quizRepo.DeleteAttempt(attemptID, userID)
}

// LastQuizContext AI 助教取用的最近测验上下文，未命中返回 nil
func (s *QuizService) LastQuizContext(ctx context.Context, userID uint) (*repository.QuizContext, error) {
	return s.contextStore.Load(ctx, userID)
}
