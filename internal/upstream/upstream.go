// Package upstream 呼叫外部的爬蟲與影片分析服務，並原樣回傳其 JSON 結果。
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kai_shield/pkg/config"
)

var (
	ErrNotConfigured = errors.New("upstream: service url not configured")

	// ErrResponseTooLarge 表示上游回應超過 maxBodyBytes
	ErrResponseTooLarge = errors.New("upstream: response too large")
)

const (
	// maxBodyBytes 限制讀取上游回應的大小
	maxBodyBytes   = 8 << 20
	defaultTimeout = 2 * time.Minute
)

// Error 表示上游服務回傳了錯誤狀態或無法解析的內容
type Error struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s responded with status %d: %s", e.Service, e.StatusCode, e.Body)
}

type client struct {
	name    string
	baseURL string
	http    *http.Client
}

func newClient(name string, cfg config.UpstreamConfig) client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return client{
		name:    name,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, c.name)
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed reading %s response: %w", c.name, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: %s sent more than %d bytes", ErrResponseTooLarge, c.name, maxBodyBytes)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{Service: c.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if !json.Valid(data) {
		return nil, &Error{Service: c.name, StatusCode: resp.StatusCode, Body: "invalid JSON body"}
	}

	return json.RawMessage(data), nil
}

// Crawler 呼叫社群平台爬蟲服務
type Crawler struct {
	client
}

func NewCrawler(cfg config.UpstreamConfig) *Crawler {
	return &Crawler{newClient("crawler", cfg)}
}

// Crawl 以 GET {url}/crawl/{platform}?keyword= 取得爬取結果
func (c *Crawler) Crawl(ctx context.Context, platform, keyword string) (json.RawMessage, error) {
	path := "/crawl/" + url.PathEscape(platform) + "?" + url.Values{"keyword": {keyword}}.Encode()
	return c.do(ctx, http.MethodGet, path, nil)
}

// Analyzer 呼叫影片分析服務
type Analyzer struct {
	client
}

func NewAnalyzer(cfg config.UpstreamConfig) *Analyzer {
	return &Analyzer{newClient("analytics", cfg)}
}

type analyzeRequest struct {
	VideoURL string `json:"video_url"`
}

// Analyze 以 POST {url}/analyze 送出影片網址
func (a *Analyzer) Analyze(ctx context.Context, videoURL string) (json.RawMessage, error) {
	return a.do(ctx, http.MethodPost, "/analyze", analyzeRequest{VideoURL: videoURL})
}
