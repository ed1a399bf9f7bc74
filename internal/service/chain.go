package service

import (
	"context"
	"log/slog"

	"kai_shield/internal/models"
	"kai_shield/internal/repository"
)

// ChainClient 是上鏈操作，由 *chain.Client 實作
type ChainClient interface {
	Upload(ctx context.Context, data []byte) (string, error)
	StoreRecord(ctx context.Context, fingerprint, ipfsHash string) (string, error)
	DeployContract(ctx context.Context) (address, txHash string, err error)
}

// ChainService 將請求原樣轉交給 ChainClient，成功後記錄交易並推送事件。
// 記錄失敗只寫日誌，不影響回應。
type ChainService struct {
	client  ChainClient
	records repository.ChainRecordRepository
	events  *EventHub
	logger  *slog.Logger
}

func NewChainService(client ChainClient, records repository.ChainRecordRepository, events *EventHub, logger *slog.Logger) *ChainService {
	return &ChainService{client: client, records: records, events: events, logger: logger}
}

func (s *ChainService) Upload(ctx context.Context, data []byte) (string, error) {
	txHash, err := s.client.Upload(ctx, data)
	if err != nil {
		return "", err
	}
	s.track(ctx, models.EventChainUpload, &models.ChainRecord{
		Kind:   models.ChainRecordUpload,
		TxHash: txHash,
	})
	return txHash, nil
}

func (s *ChainService) StoreRecord(ctx context.Context, fingerprint, ipfsHash string) (string, error) {
	txHash, err := s.client.StoreRecord(ctx, fingerprint, ipfsHash)
	if err != nil {
		return "", err
	}
	s.track(ctx, models.EventChainRecord, &models.ChainRecord{
		Kind:        models.ChainRecordStore,
		TxHash:      txHash,
		Fingerprint: fingerprint,
		IPFSHash:    ipfsHash,
	})
	return txHash, nil
}

func (s *ChainService) DeployContract(ctx context.Context) (string, error) {
	address, txHash, err := s.client.DeployContract(ctx)
	if err != nil {
		return "", err
	}
	s.track(ctx, models.EventChainDeploy, &models.ChainRecord{
		Kind:            models.ChainRecordDeploy,
		TxHash:          txHash,
		ContractAddress: address,
	})
	return address, nil
}

func (s *ChainService) ListRecords(ctx context.Context, fingerprint string, limit int) ([]models.ChainRecord, error) {
	return s.records.List(ctx, fingerprint, limit)
}

func (s *ChainService) track(ctx context.Context, eventType string, record *models.ChainRecord) {
	// 請求可能已取消，記錄仍需寫入
	if err := s.records.Create(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Error("failed saving chain record",
			"kind", record.Kind, "tx_hash", record.TxHash, "error", err)
	}
	s.events.Publish(models.NewEvent(eventType, record))
}
