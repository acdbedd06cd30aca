package model

// AttemptQuestion 历史记录里单题的判定，answer 为 null 表示未作答
type AttemptQuestion struct {
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
	Correct  bool    `json:"correct"`
}

// QuizAttempt 一次完整测验的落库记录
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID          uint              `gorm:"index;not null" json:"userId"`
	CourseID        uint              `gorm:"index;not null" json:"courseId"`
	CourseName      string            `gorm:"size:255" json:"courseName"`
	Score           int               `gorm:"not null" json:"score"`
	TotalQuestions  int               `gorm:"not null" json:"totalQuestions"`
	Difficulty      string            `gorm:"size:20" json:"difficulty"`
	TimeSpentMs     int64             `json:"timeSpent"`
	TimePerQuestion int               `json:"timePerQuestion"`
	Questions       []AttemptQuestion `gorm:"type:json;serializer:json" json:"questions"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizStats 聚合统计，供测验页头部卡片使用
type QuizStats struct {
	TotalQuizzes int     `json:"totalQuizzes"`
	AverageScore float64 `json:"averageScore"`
	LatestScore  int     `json:"latestScore"`
}
