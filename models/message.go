package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message represents one turn in a conversation. Assistant turns may carry
// the ordered tool-call trace for the whole exchange as a JSON column.
type Message struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;index;not null" json:"conversation_id"`
	Role           string         `gorm:"not null" json:"role"` // "user" for ask, "assistant" for answer
	Content        string         `gorm:"not null" json:"content"`
	ToolCalls      datatypes.JSON `json:"tool_calls,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
