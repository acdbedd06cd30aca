package service

import (
	"context"
	"errors"
	"time"

	"learnmate_backend/internal/model"
	"learnmate_backend/internal/repository"
	"learnmate_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	courseRepo    *repository.CourseRepository
	milestoneRepo *repository.MilestoneRepository
	aiService     *AIService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	milestoneRepo *repository.MilestoneRepository,
	aiService *AIService,
) *CourseService {
	return &CourseService{
		courseRepo:    courseRepo,
		milestoneRepo: milestoneRepo,
		aiService:     aiService,
	}
}

type CourseInput struct {
	Name          string                   `json:"name" binding:"required"`
	Description   string                   `json:"description"`
	Provider      string                   `json:"provider"`
	Duration      string                   `json:"duration"`
	Pace          string                   `json:"pace"`
	Deadline      time.Time                `json:"deadline" binding:"required"`
	Objectives    []string                 `json:"objectives"`
	Prerequisites []string                 `json:"prerequisites"`
	MainSkills    []string                 `json:"mainSkills"`
	Milestones    []model.OutlineMilestone `json:"milestones"`
}

func (s *CourseService) Create(userID uint, input CourseInput) (*model.Course, error) {
	if !input.Deadline.After(time.Now()) {
		return nil, util.ErrDeadlinePast
	}

	course := &model.Course{
		UserID:        userID,
		Name:          input.Name,
		Description:   input.Description,
		Provider:      input.Provider,
		Duration:      input.Duration,
		Pace:          input.Pace,
		Deadline:      input.Deadline,
		Objectives:    input.Objectives,
		Prerequisites: input.Prerequisites,
		MainSkills:    input.MainSkills,
		Milestones:    input.Milestones,
	}
	if err := s.courseRepo.Create(course); err != nil {
		return nil, err
	}

	// 大纲里程碑同步落到进度追踪表
	if len(input.Milestones) > 0 {
		rows := make([]model.Milestone, 0, len(input.Milestones))
		for _, m := range input.Milestones {
			due, err := time.Parse("2006-01-02", m.Deadline)
			if err != nil {
				due = input.Deadline
			}
			rows = append(rows, model.Milestone{
				UserID:   userID,
				CourseID: course.ID,
				Title:    m.Name,
				DueDate:  due,
			})
		}
		if err := s.milestoneRepo.CreateBatch(rows); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (s *CourseService) List(userID uint) ([]model.Course, error) {
	return s.courseRepo.FindByUser(userID)
}

func (s *CourseService) Get(userID, courseID uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, util.ErrForbidden
	}
	return course, nil
}

func (s *CourseService) Update(userID, courseID uint, input CourseInput) (*model.Course, error) {
	course, err := s.Get(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !input.Deadline.After(time.Now()) {
		return nil, util.ErrDeadlinePast
	}

	course.Name = input.Name
	course.Description = input.Description
	course.Provider = input.Provider
	course.Duration = input.Duration
	course.Pace = input.Pace
	course.Deadline = input.Deadline
	course.Objectives = input.Objectives
	course.Prerequisites = input.Prerequisites
	course.MainSkills = input.MainSkills
	course.Milestones = input.Milestones

	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(userID, courseID uint) error {
	if _, err := s.Get(userID, courseID); err != nil {
		return err
	}
	if err := s.milestoneRepo.DeleteByCourse(courseID); err != nil {
		return err
	}
	return s.courseRepo.Delete(courseID)
}

// ExtractOutline 把课程描述文本交给 AI 提取结构化大纲
func (s *CourseService) ExtractOutline(ctx context.Context, description string) (*CourseOutline, error) {
	return s.aiService.GenerateCourseOutline(ctx, description)
}
