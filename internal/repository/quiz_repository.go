package repository

import (
	"learnmate_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

// FindAttemptsByUser 按时间倒序返回用户的测验历史
func (r *QuizRepository) FindAttemptsByUser(userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	q := r.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) FindAttemptsByCourse(userID, courseID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) DeleteAttempt(id, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.QuizAttempt{}).Error
}

// Stats 聚合总次数、平均分百分比和最近一次得分
func (r *QuizRepository) Stats(userID uint) (*model.QuizStats, error) {
	stats := &model.QuizStats{}

	var count int64
	if err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	stats.TotalQuizzes = int(count)
	if count == 0 {
		return stats, nil
	}

	var avg float64
	if err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND total_questions > 0", userID).
		Select("AVG(score * 100.0 / total_questions)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AverageScore = avg

	var latest model.QuizAttempt
	if err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error; err != nil {
		return nil, err
	}
	stats.LatestScore = latest.Score

	return stats, nil
}
