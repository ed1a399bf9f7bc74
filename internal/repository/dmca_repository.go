package repository

import (
	"context"

	"kai_shield/internal/models"
	"kai_shield/internal/storage"
)

type DMCARepository interface {
	Create(ctx context.Context, req *models.DMCARequest) error
	FindByID(ctx context.Context, id uint) (*models.DMCARequest, error)
}

func NewDMCARepository(db *storage.Database) DMCARepository {
	return newBaseRepository[models.DMCARequest](db)
}
