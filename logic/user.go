package logic

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskchat-backend/config"
	"taskchat-backend/dao"
	"taskchat-backend/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")

// UserLogic handles user-related business logic
type UserLogic struct {
	userDAO *dao.UserDAO
}

func NewUserLogic(userDAO *dao.UserDAO) *UserLogic {
	return &UserLogic{userDAO: userDAO}
}

// GetUser retrieves user info
func (l *UserLogic) GetUser(userID uint64) (*models.User, error) {
	return l.userDAO.GetUserByID(userID)
}

// Register creates an account with a bcrypt-hashed password
func (l *UserLogic) Register(username, password string) (*models.User, error) {
	if _, err := l.userDAO.GetUserByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return l.userDAO.CreateUser(username, string(hash))
}

// Login checks the password and mints a JWT for the user
func (l *UserLogic) Login(username, password string) (*models.User, string, time.Time, error) {
	user, err := l.userDAO.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expireAt, err := l.generateJWT(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	return user, token, expireAt, nil
}

func (l *UserLogic) generateJWT(userID uint64) (string, time.Time, error) {
	expireAt := time.Now().Add(time.Duration(config.GlobalConfig.Auth.ExpHour) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     expireAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(config.GlobalConfig.Auth.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expireAt, nil
}
