package service

import (
	"errors"
	"time"

	"learnmate_backend/internal/model"
	"learnmate_backend/internal/repository"
	"learnmate_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	milestoneRepo *repository.MilestoneRepository
	quizRepo      *repository.QuizRepository
	courseRepo    *repository.CourseRepository
}

func NewProgressService(
	milestoneRepo *repository.MilestoneRepository,
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
) *ProgressService {
	return &ProgressService{
		milestoneRepo: milestoneRepo,
		quizRepo:      quizRepo,
		courseRepo:    courseRepo,
	}
}

type MilestoneInput struct {
	CourseID    uint      `json:"courseId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Priority    string    `json:"priority"`
}

func (s *ProgressService) CreateMilestone(userID uint, input MilestoneInput) (*model.Milestone, error) {
	course, err := s.courseRepo.FindByID(input.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, util.ErrForbidden
	}

	priority := input.Priority
	if priority == "" {
		priority = "Medium"
	}
	milestone := &model.Milestone{
		UserID:      userID,
		CourseID:    input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    priority,
	}
	if err := s.milestoneRepo.Create(milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (s *ProgressService) ListMilestones(userID uint) ([]model.Milestone, error) {
	return s.milestoneRepo.FindByUser(userID)
}

// ToggleMilestone 切换完成状态
func (s *ProgressService) ToggleMilestone(userID, milestoneID uint) (*model.Milestone, error) {
	milestone, err := s.milestoneRepo.FindByID(milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMilestoneNotFound
		}
		return nil, err
	}
	if milestone.UserID != userID {
		return nil, util.ErrForbidden
	}

	milestone.Completed = !milestone.Completed
	if err := s.milestoneRepo.Update(milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (s *ProgressService) DeleteMilestone(userID, milestoneID uint) error {
	milestone, err := s.milestoneRepo.FindByID(milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMilestoneNotFound
		}
		return err
	}
	if milestone.UserID != userID {
		return util.ErrForbidden
	}
	return s.milestoneRepo.Delete(milestoneID)
}

// WeeklyPoint 进度页折线图的一个点
type WeeklyPoint struct {
	WeekStart    time.Time `json:"weekStart"`
	Quizzes      int       `json:"quizzes"`
	AverageScore float64   `json:"averageScore"`
}

// WeeklyProgress 最近 weeks 周的测验活跃度与平均分
func (s *ProgressService) WeeklyProgress(userID uint, weeks int) ([]WeeklyPoint, error) {
	if weeks <= 0 {
		weeks = 8
	}
	attempts, err := s.quizRepo.FindAttemptsByUser(userID, 0)
	if err != nil {
		return nil, err
	}
	return weeklyBuckets(attempts, time.Now(), weeks), nil
}

// weeklyBuckets 把测验记录按周分桶，周一作为一周的起点。
// 返回从最早到最近的连续 weeks 个桶，空桶也保留。
// 分桶统一换算到 UTC，记录来源时区（DSN loc、只读副本）不影响归桶。
func weeklyBuckets(attempts []model.QuizAttempt, now time.Time, weeks int) []WeeklyPoint {
	thisWeek := weekStart(now.UTC())
	points := make([]WeeklyPoint, weeks)
	for i := range points {
		points[i].WeekStart = thisWeek.AddDate(0, 0, -7*(weeks-1-i))
	}
	oldest := points[0].WeekStart

	type agg struct {
		count int
		sum   float64
	}
	buckets := make(map[int64]*agg)

	for _, a := range attempts {
		ws := weekStart(a.CreatedAt.UTC())
		if ws.Before(oldest) || ws.After(thisWeek) {
			continue
		}
		b, ok := buckets[ws.Unix()]
		if !ok {
			b = &agg{}
			buckets[ws.Unix()] = b
		}
		b.count++
		if a.TotalQuestions > 0 {
			b.sum += float64(a.Score) * 100.0 / float64(a.TotalQuestions)
		}
	}

	for i := range points {
		if b, ok := buckets[points[i].WeekStart.Unix()]; ok {
			points[i].Quizzes = b.count
			points[i].AverageScore = b.sum / float64(b.count)
		}
	}
	return points
}

// weekStart 所在周的周一零点，保留入参自身的时区
func weekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // 周日归到本周末尾
	}
	day := t.AddDate(0, 0, -(wd - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
