package service

import (
	"context"
	"io"
)

type IPFSAdder interface {
	Add(ctx context.Context, r io.Reader) (string, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

// MediaService 將檔案轉交給 IPFS 與 Cloudinary
type MediaService struct {
	ipfs  IPFSAdder
	media MediaUploader
}

func NewMediaService(ipfs IPFSAdder, media MediaUploader) *MediaService {
	return &MediaService{ipfs: ipfs, media: media}
}

func (s *MediaService) AddToIPFS(ctx context.Context, r io.Reader) (string, error) {
	return s.ipfs.Add(ctx, r)
}

func (s *MediaService) UploadToCloudinary(ctx context.Context, r io.Reader) (string, error) {
	return s.media.Upload(ctx, r)
}
