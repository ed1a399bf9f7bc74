package service

import (
	"log/slog"

	"kai_shield/internal/repository"
	"kai_shield/internal/utils"
)

// Dependencies 是 service 層使用的外部協作者
type Dependencies struct {
	Chain    ChainClient
	IPFS     IPFSAdder
	Media    MediaUploader
	Crawler  SocialCrawler
	Analyzer VideoAnalyzer
	Tokens   *utils.TokenManager
	Logger   *slog.Logger
}

type Services struct {
	Auth        *AuthService
	Fingerprint *FingerprintService
	Chain       *ChainService
	Media       *MediaService
	Intel       *IntelService
	DMCA        *DMCAService
	Events      *EventHub
	Tokens      *utils.TokenManager
}

func NewServices(repos *repository.Repositories, deps Dependencies) *Services {
	events := NewEventHub(deps.Logger)

	return &Services{
		Auth:        NewAuthService(repos.User, deps.Tokens),
		Fingerprint: NewFingerprintService(repos.Fingerprint, events),
		Chain:       NewChainService(deps.Chain, repos.ChainRecord, events, deps.Logger),
		Media:       NewMediaService(deps.IPFS, deps.Media),
		Intel:       NewIntelService(deps.Crawler, deps.Analyzer),
		DMCA:        NewDMCAService(repos.DMCA, events),
		Events:      events,
		Tokens:      deps.Tokens,
	}
}
