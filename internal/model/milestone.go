package model

import "time"

// Milestone 进度页上的里程碑条目，按用户+课程归属
// swagger:model Milestone
type Milestone struct {
	BaseModel
	UserID      uint      `gorm:"index;not null" json:"userId"`
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	Priority    string    `gorm:"size:10;default:'Medium'" json:"priority"` // Low/Medium/High
}

func (Milestone) TableName() string {
	return "milestones"
}
