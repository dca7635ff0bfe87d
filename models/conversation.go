package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents a chat thread between a user and the assistant
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uint64    `gorm:"index;not null" json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
