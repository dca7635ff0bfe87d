package logic

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskchat-backend/dao"
	"taskchat-backend/models"
)

// ErrNotFound covers entities that do not exist or do not belong to the
// caller. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ConversationLogic handles conversation listing and deletion
type ConversationLogic struct {
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
}

func NewConversationLogic(convoDAO *dao.ConversationDAO, messageDAO *dao.MessageDAO) *ConversationLogic {
	return &ConversationLogic{convoDAO: convoDAO, messageDAO: messageDAO}
}

// GetConversations retrieves all conversations for an owner
func (l *ConversationLogic) GetConversations(ownerID uint64) ([]models.Conversation, error) {
	return l.convoDAO.GetConversationsByOwner(ownerID)
}

// GetConversationMessages retrieves the messages of a conversation owned by
// ownerID, oldest first
func (l *ConversationLogic) GetConversationMessages(ownerID uint64, conversationID uuid.UUID) ([]models.Message, error) {
	convo, err := l.convoDAO.GetConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if convo.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return l.messageDAO.GetMessagesByConversationID(conversationID)
}

// DeleteConversation deletes a conversation owned by ownerID
func (l *ConversationLogic) DeleteConversation(ownerID uint64, conversationID uuid.UUID) error {
	err := l.convoDAO.DeleteConversation(conversationID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
