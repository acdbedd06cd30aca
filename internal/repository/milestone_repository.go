package repository

import (
	"learnmate_backend/internal/model"

	"gorm.io/gorm"
)

type MilestoneRepository struct {
	DB *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{DB: db}
}

func (r *MilestoneRepository) Create(milestone *model.Milestone) error {
	return r.DB.Create(milestone).Error
}

func (r *MilestoneRepository) CreateBatch(milestones []model.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	return r.DB.Create(&milestones).Error
}

func (r *MilestoneRepository) FindByID(id uint) (*model.Milestone, error) {
	var milestone model.Milestone
	err := r.DB.First(&milestone, id).Error
	return &milestone, err
}

// FindByUser 按截止时间升序返回里程碑
func (r *MilestoneRepository) FindByUser(userID uint) ([]model.Milestone, error) {
	var milestones []model.Milestone
	err := r.DB.Where("user_id = ?", userID).
		Order("due_date ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepository) FindByCourse(courseID uint) ([]model.Milestone, error) {
	var milestones []model.Milestone
	err := r.DB.Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepository) Update(milestone *model.Milestone) error {
	return r.DB.Save(milestone).Error
}

func (r *MilestoneRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Milestone{}, id).Error
}

func (r *MilestoneRepository) DeleteByCourse(courseID uint) error {
	return r.DB.Where("course_id = ?", courseID).
		Delete(&model.Milestone{}).Error
}

func (r *MilestoneRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Milestone{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *MilestoneRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Milestone{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}
