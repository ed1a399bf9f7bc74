package repository

import (
	"context"

	"kai_shield/internal/storage"
)

// baseRepository 提供各資料表共用的 CRUD
type baseRepository[T any] struct {
	db *storage.Database
}

func newBaseRepository[T any](db *storage.Database) baseRepository[T] {
	return baseRepository[T]{db: db}
}

func (r baseRepository[T]) Create(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r baseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var model T
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}
