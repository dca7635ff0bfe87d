package models

import (
	"time"
)

// User represents an account that owns tasks and conversations
type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	TokensConsumed uint64    `gorm:"default:0" json:"tokens_consumed"` // Total chat tokens consumed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
