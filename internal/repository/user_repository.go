package repository

import (
	"context"

	"kai_shield/internal/models"
	"kai_shield/internal/storage"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	baseRepository[models.User]
}

func NewUserRepository(db *storage.Database) UserRepository {
	return &userRepository{newBaseRepository[models.User](db)}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
