package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

type MediaHandler struct {
	mediaService   *service.MediaService
	maxUploadBytes int64
}

func NewMediaHandler(mediaService *service.MediaService, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, maxUploadBytes: maxUploadBytes}
}

func (h *MediaHandler) UploadToIPFS(c *gin.Context) {
	f, _, ok := openUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}
	defer f.Close()

	cid, err := h.mediaService.AddToIPFS(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "IPFS upload error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ipfsHash": cid})
}

func (h *MediaHandler) UploadToCloudinary(c *gin.Context) {
	f, _, ok := openUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}
	defer f.Close()

	url, err := h.mediaService.UploadToCloudinary(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "Cloudinary upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cloudinary_url": url})
}
