package repository

import (
	"learnmate_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(chat *model.ChatHistory) error {
	return r.DB.Create(chat).Error
}

func (r *ChatRepository) FindByID(id string) (*model.ChatHistory, error) {
	var chat model.ChatHistory
	err := r.DB.Where("id = ?", id).First(&chat).Error
	return &chat, err
}

// FindByUser 按更新时间倒序返回对话列表
func (r *ChatRepository) FindByUser(userID uint) ([]model.ChatHistory, error) {
	var chats []model.ChatHistory
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *ChatRepository) Update(chat *model.ChatHistory) error {
	return r.DB.Save(chat).Error
}

func (r *ChatRepository) Delete(id string, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ChatHistory{}).Error
}
