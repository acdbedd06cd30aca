package service

import (
	"learnmate_backend/internal/repository"
)

// DashboardService 首页聚合统计
type DashboardService struct {
	courseRepo    *repository.CourseRepository
	milestoneRepo *repository.MilestoneRepository
	quizRepo      *repository.QuizRepository
}

func NewDashboardService(
	courseRepo *repository.CourseRepository,
	milestoneRepo *repository.MilestoneRepository,
	quizRepo *repository.QuizRepository,
) *DashboardService {
	return &DashboardService{
		courseRepo:    courseRepo,
		milestoneRepo: milestoneRepo,
		quizRepo:      quizRepo,
	}
}

type UserStats struct {
	Courses             int64   `json:"courses"`
	MilestonesCompleted int64   `json:"milestonesCompleted"`
	TotalQuizzes        int     `json:"totalQuizzes"`
	AverageScore        float64 `json:"averageScore"`
}

// ScorePoint 表现走势图里的一个点
type ScorePoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Percent float64 `json:"percent"`
}

// CourseSuccess 按课程聚合的平均得分
type CourseSuccess struct {
	CourseName   string  `json:"courseName"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"averageScore"`
}

// PerformanceMetrics 表现页的聚合视图
type PerformanceMetrics struct {
	RecentScores        []ScorePoint    `json:"recentScores"`
	MilestonesCompleted int64           `json:"milestonesCompleted"`
	MilestonesTotal     int64           `json:"milestonesTotal"`
	CourseSuccess       []CourseSuccess `json:"courseSuccess"`
}

// Metrics 最近测验得分序列、里程碑进度和分课程成功率
func (s *DashboardService) Metrics(userID uint) (*PerformanceMetrics, error) {
	attempts, err := s.quizRepo.FindAttemptsByUser(userID, 30)
	if err != nil {
		return nil, err
	}

	m := &PerformanceMetrics{
		RecentScores: make([]ScorePoint, 0, len(attempts)),
	}
	// FindAttemptsByUser 倒序返回，图表按时间正序
	type agg struct {
		count int
		sum   float64
	}
	byCourse := make(map[string]*agg)
	for i := len(attempts) - 1; i >= 0; i-- {
		a := attempts[i]
		if a.TotalQuestions == 0 {
			continue
		}
		pct := float64(a.Score) * 100.0 / float64(a.TotalQuestions)
		m.RecentScores = append(m.RecentScores, ScorePoint{
			Date:    a.CreatedAt.Format("2006-01-02"),
			Percent: pct,
		})
		b, ok := byCourse[a.CourseName]
		if !ok {
			b = &agg{}
			byCourse[a.CourseName] = b
		}
		b.count++
		b.sum += pct
	}
	for name, b := range byCourse {
		m.CourseSuccess = append(m.CourseSuccess, CourseSuccess{
			CourseName:   name,
			Attempts:     b.count,
			AverageScore: b.sum / float64(b.count),
		})
	}

	if m.MilestonesTotal, err = s.milestoneRepo.CountByUser(userID); err != nil {
		return nil, err
	}
	if m.MilestonesCompleted, err = s.milestoneRepo.CountCompletedByUser(userID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DashboardService) UserStats(userID uint) (*UserStats, error) {
	courses, err := s.courseRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.milestoneRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	quizStats, err := s.quizRepo.Stats(userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		Courses:             courses,
		MilestonesCompleted: completed,
		TotalQuizzes:        quizStats.TotalQuizzes,
		AverageScore:        quizStats.AverageScore,
	}, nil
}
