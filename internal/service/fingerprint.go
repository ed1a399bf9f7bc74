package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"kai_shield/internal/models"
	"kai_shield/internal/repository"
)

type FingerprintService struct {
	repo   repository.FingerprintRepository
	events *EventHub
}

func NewFingerprintService(repo repository.FingerprintRepository, events *EventHub) *FingerprintService {
	return &FingerprintService{repo: repo, events: events}
}

// Fingerprint 計算內容的 sha256，回傳小寫十六進位字串與位元組數
func Fingerprint(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Register 計算指紋並記錄檔案中繼資料；相同內容重複上傳時回傳既有紀錄
func (s *FingerprintService) Register(ctx context.Context, fileName, contentType string, r io.Reader) (*models.Fingerprint, error) {
	hash, size, err := Fingerprint(r)
	if err != nil {
		return nil, fmt.Errorf("failed reading upload: %w", err)
	}

	fp := &models.Fingerprint{
		Hash:        hash,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	created, err := s.repo.FirstOrCreate(ctx, fp)
	if err != nil {
		return nil, err
	}
	if created {
		s.events.Publish(models.NewEvent(models.EventFingerprintCreated, fp))
	}
	return fp, nil
}

func (s *FingerprintService) Get(ctx context.Context, hash string) (*models.Fingerprint, error) {
	fp, err := s.repo.FindByHash(ctx, hash)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return fp, err
}
