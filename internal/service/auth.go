package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kai_shield/internal/models"
	"kai_shield/internal/repository"
	"kai_shield/internal/utils"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register 以 bcrypt 雜湊密碼後建立用戶
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 併發註冊同一 email 時由唯一索引擋下，後到者視為重複
		if _, findErr := s.userRepo.FindByEmail(ctx, email); findErr == nil {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login 驗證帳密並簽發 JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	} else if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(user.ID, user.Email)
}
