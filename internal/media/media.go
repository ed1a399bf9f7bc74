// Package media 將檔案上傳至 Cloudinary 媒體託管。
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"kai_shield/pkg/config"
)

var ErrNotConfigured = errors.New("media: cloudinary not configured")

// Uploader 是 *uploader.API 中用到的部分
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type Client struct {
	uploader Uploader
}

// New 依設定建立 Client；缺少憑證時回傳的 Client 只會回傳 ErrNotConfigured
func New(cfg config.CloudinaryConfig) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return &Client{}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed creating cloudinary client: %w", err)
	}
	return NewWithUploader(&cld.Upload), nil
}

func NewWithUploader(u Uploader) *Client {
	return &Client{uploader: u}
}

// Upload 上傳內容並回傳 https 網址
func (c *Client) Upload(ctx context.Context, r io.Reader) (string, error) {
	if c.uploader == nil {
		return "", ErrNotConfigured
	}

	res, err := c.uploader.Upload(ctx, r, uploader.UploadParams{ResourceType: "auto"})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
