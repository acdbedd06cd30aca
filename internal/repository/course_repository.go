package repository

import (
	"learnmate_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByUser 按创建时间倒序返回用户的全部课程
func (r *CourseRepository) FindByUser(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
