package repository

import (
	"context"

	"kai_shield/internal/models"
	"kai_shield/internal/storage"
)

type ChainRecordRepository interface {
	Create(ctx context.Context, record *models.ChainRecord) error
	// List 依建立時間新到舊排序；fingerprint 為空時不篩選，limit <= 0 時不限制筆數
	List(ctx context.Context, fingerprint string, limit int) ([]models.ChainRecord, error)
}

type chainRecordRepository struct {
	baseRepository[models.ChainRecord]
}

func NewChainRecordRepository(db *storage.Database) ChainRecordRepository {
	return &chainRecordRepository{newBaseRepository[models.ChainRecord](db)}
}

func (r *chainRecordRepository) List(ctx context.Context, fingerprint string, limit int) ([]models.ChainRecord, error) {
	var records []models.ChainRecord
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if fingerprint != "" {
		q = q.Where("fingerprint = ?", fingerprint)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}
