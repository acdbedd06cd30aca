package model

// ChatMessage AI 助教对话里的一条消息
type ChatMessage struct {
	Role    string `json:"role"` // user 或 assistant
	Content string `json:"content"`
}

// ChatHistory 一段 AI 助教对话，消息整体 JSON 存储
// swagger:model ChatHistory
type ChatHistory struct {
	UUIDBase
	UserID   uint          `gorm:"index;not null" json:"userId"`
	Title    string        `gorm:"size:255" json:"title"`
	Messages []ChatMessage `gorm:"type:json;serializer:json" json:"messages"`
}

func (ChatHistory) TableName() string {
	return "chat_histories"
}
