package quiz

// Question AI 生成器产出的单道选择题，进入会话后不可变
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Config 会话配置，开始后整个生命周期内不变
type Config struct {
	QuestionCount      int    `json:"numberOfQuestions"`
	Difficulty         string `json:"difficulty"`
	SecondsPerQuestion int    `json:"timePerQuestion"`
}

// QuestionState 每道题的作答状态，与题目按下标一一对应
type QuestionState struct {
	UserAnswer      string `json:"userAnswer,omitempty"` // 空串表示未作答
	TimeExpired     bool   `json:"timeExpired"`
	Viewed          bool   `json:"viewed"`
	TimeLeftAtEntry int    `json:"timeLeftAtEntry"`
}

// ResultOption 结果里带标签的选项，供结果页和 AI 助教引用
type ResultOption struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ResultQuestion 单题的最终判定
type ResultQuestion struct {
	Question      string         `json:"question"`
	Options       []ResultOption `json:"options"`
	CorrectAnswer string         `json:"correctAnswer"`
	UserAnswer    *string        `json:"userAnswer"` // null 表示未作答
	IsCorrect     bool           `json:"isCorrect"`
}

// Result 会话终态的只读快照，进入 Completed 时计算一次
type Result struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Questions      []ResultQuestion `json:"questions"`
}

// Snapshot 渲染层可见的会话视图，不含正确答案
type Snapshot struct {
	ID             string          `json:"id"`
	State          string          `json:"state"`
	Config         Config          `json:"config"`
	CurrentIndex   int             `json:"currentIndex"`
	TimeLeft       int             `json:"timeLeft"`
	TotalQuestions int             `json:"totalQuestions"`
	Question       *ViewQuestion   `json:"question,omitempty"`
	States         []QuestionState `json:"states"`
	Result         *Result         `json:"result,omitempty"`
}

// ViewQuestion 展示给作答方的题面
type ViewQuestion struct {
	Index    int            `json:"index"`
	Question string         `json:"question"`
	Options  []ResultOption `json:"options"`
}

// labelForIndex 0->A 1->B 2->C 3->D
func labelForIndex(i int) string {
	return string(rune('A' + i))
}
