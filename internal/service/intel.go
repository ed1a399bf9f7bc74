package service

import (
	"context"
	"encoding/json"
)

type SocialCrawler interface {
	Crawl(ctx context.Context, platform, keyword string) (json.RawMessage, error)
}

type VideoAnalyzer interface {
	Analyze(ctx context.Context, videoURL string) (json.RawMessage, error)
}

// IntelService 轉交爬蟲與影片分析請求，結果不做任何處理
type IntelService struct {
	crawler  SocialCrawler
	analyzer VideoAnalyzer
}

func NewIntelService(crawler SocialCrawler, analyzer VideoAnalyzer) *IntelService {
	return &IntelService{crawler: crawler, analyzer: analyzer}
}

func (s *IntelService) CrawlSocial(ctx context.Context, platform, keyword string) (json.RawMessage, error) {
	return s.crawler.Crawl(ctx, platform, keyword)
}

func (s *IntelService) AnalyzeVideo(ctx context.Context, videoURL string) (json.RawMessage, error) {
	return s.analyzer.Analyze(ctx, videoURL)
}
