package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kai_shield/internal/models"
	"kai_shield/internal/storage"
)

type FingerprintRepository interface {
	// FirstOrCreate 依 Hash 查詢，不存在時寫入；created 表示是否為新紀錄
	FirstOrCreate(ctx context.Context, fp *models.Fingerprint) (created bool, err error)
	FindByHash(ctx context.Context, hash string) (*models.Fingerprint, error)
}

type fingerprintRepository struct {
	baseRepository[models.Fingerprint]
}

func NewFingerprintRepository(db *storage.Database) FingerprintRepository {
	return &fingerprintRepository{newBaseRepository[models.Fingerprint](db)}
}

func (r *fingerprintRepository) FirstOrCreate(ctx context.Context, fp *models.Fingerprint) (bool, error) {
	existing, err := r.FindByHash(ctx, fp.Hash)
	if err == nil {
		*fp = *existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.Create(ctx, fp); err != nil {
		// 併發寫入同一指紋時以唯一索引為準，改回傳既有紀錄
		if existing, findErr := r.FindByHash(ctx, fp.Hash); findErr == nil {
			*fp = *existing
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *fingerprintRepository) FindByHash(ctx context.Context, hash string) (*models.Fingerprint, error) {
	var fp models.Fingerprint
	err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&fp).Error
	if err != nil {
		return nil, err
	}
	return &fp, nil
}
