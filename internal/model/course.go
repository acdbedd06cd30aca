package model

import "time"

// OutlineMilestone 课程大纲里的周目标，随课程 JSON 存储。
// 与 Milestone（进度追踪行）不同，它只是大纲的一部分。
type OutlineMilestone struct {
	Name     string `json:"name"`
	Deadline string `json:"deadline"` // YYYY-MM-DD
}

// Course 用户登记的课程，大纲字段来自 AI 提取或手工填写
// swagger:model Course
type Course struct {
	BaseModel
	UserID        uint               `gorm:"index;not null" json:"userId"`
	Name          string             `gorm:"size:255;not null" json:"name"`
	Description   string             `gorm:"type:text" json:"description"`
	Provider      string             `gorm:"size:100" json:"provider"`
	Duration      string             `gorm:"size:50" json:"duration"`
	Pace          string             `gorm:"size:50" json:"pace"`
	Deadline      time.Time          `json:"deadline"`
	Objectives    []string           `gorm:"type:json;serializer:json" json:"objectives"`
	Prerequisites []string           `gorm:"type:json;serializer:json" json:"prerequisites"`
	MainSkills    []string           `gorm:"type:json;serializer:json" json:"mainSkills"`
	Milestones    []OutlineMilestone `gorm:"type:json;serializer:json" json:"milestones"`
}

func (Course) TableName() string {
	return "courses"
}
