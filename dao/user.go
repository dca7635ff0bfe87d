package dao

import (
	"gorm.io/gorm"

	"taskchat-backend/models"
)

// UserDAO handles user-related database operations
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser creates a new user
func (d *UserDAO) CreateUser(username, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash}
	if err := d.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (d *UserDAO) GetUserByID(id uint64) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (d *UserDAO) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddTokensConsumed increments the user's consumed token counter
func (d *UserDAO) AddTokensConsumed(id uint64, delta uint64) error {
	return d.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("tokens_consumed", gorm.Expr("tokens_consumed + ?", delta)).Error
}
