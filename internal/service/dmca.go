package service

import (
	"context"

	"kai_shield/internal/models"
	"kai_shield/internal/repository"
)

type DMCAService struct {
	repo   repository.DMCARepository
	events *EventHub
}

func NewDMCAService(repo repository.DMCARepository, events *EventHub) *DMCAService {
	return &DMCAService{repo: repo, events: events}
}

// Submit 記錄下架請求；目前不會轉送至外部法務服務
func (s *DMCAService) Submit(ctx context.Context, infringingURL, originalWork string) (*models.DMCARequest, error) {
	req := &models.DMCARequest{
		InfringingURL: infringingURL,
		OriginalWork:  originalWork,
		Status:        models.DMCAStatusRequested,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.events.Publish(models.NewEvent(models.EventDMCASubmitted, req))
	return req, nil
}
