// Package detect 是爬蟲偵測服務：抓取頁面內容並估算與原作的相似度。
package detect

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// InfringingThreshold 相似度超過此值即視為侵權
const InfringingThreshold = 0.95

const maxPageBytes = 16 << 20

// Scorer 依頁面內容回傳 0~1 的相似度
type Scorer func(content []byte) float64

// RandomScorer 尚無比對模型時使用的佔位評分
func RandomScorer([]byte) float64 {
	return rand.Float64()
}

type Result struct {
	URL          string `json:"url"`
	Similarity   string `json:"similarity"`
	IsInfringing bool   `json:"isInfringing"`
}

type Detector struct {
	client *http.Client
	score  Scorer
}

func New(timeout time.Duration, score Scorer) *Detector {
	if score == nil {
		score = RandomScorer
	}
	return &Detector{
		client: &http.Client{Timeout: timeout},
		score:  score,
	}
}

// Detect 抓取 url 並評分
func (d *Detector) Detect(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "KaiShieldCrawler/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetching %s returned status %d", url, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", url, err)
	}

	similarity := d.score(content)
	return &Result{
		URL:          url,
		Similarity:   strconv.FormatFloat(similarity, 'f', 2, 64),
		IsInfringing: similarity > InfringingThreshold,
	}, nil
}
