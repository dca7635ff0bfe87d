package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskchat-backend/models"
)

// ConversationDAO handles conversation-related database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation for an owner
func (d *ConversationDAO) CreateConversation(ownerID uint64, title string) (*models.Conversation, error) {
	convo := &models.Conversation{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   title,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversationByID retrieves a conversation by id
func (d *ConversationDAO) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.Where("id = ?", id).First(&convo).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// GetConversationsByOwner retrieves all conversations for an owner, newest first
func (d *ConversationDAO) GetConversationsByOwner(ownerID uint64) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}

// TouchConversation bumps the conversation's updated_at timestamp
func (d *ConversationDAO) TouchConversation(id uuid.UUID) error {
	return d.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

// DeleteConversation deletes a conversation and its messages, scoped to the owner
func (d *ConversationDAO) DeleteConversation(id uuid.UUID, ownerID uint64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error
	})
}
