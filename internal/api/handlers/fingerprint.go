package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

type FingerprintHandler struct {
	fingerprintService *service.FingerprintService
	maxUploadBytes     int64
}

func NewFingerprintHandler(fingerprintService *service.FingerprintService, maxUploadBytes int64) *FingerprintHandler {
	return &FingerprintHandler{fingerprintService: fingerprintService, maxUploadBytes: maxUploadBytes}
}

// Upload 計算上傳檔案的 sha256 指紋並記錄
func (h *FingerprintHandler) Upload(c *gin.Context) {
	f, fh, ok := openUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}
	defer f.Close()

	fp, err := h.fingerprintService.Register(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, err, "Upload error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "File uploaded successfully",
		"fingerprint": fp.Hash,
	})
}

// Get 查詢指紋紀錄
func (h *FingerprintHandler) Get(c *gin.Context) {
	fp, err := h.fingerprintService.Get(c.Request.Context(), c.Param("hash"))
	if err != nil {
		writeError(c, err, "無法查詢指紋")
		return
	}

	c.JSON(http.StatusOK, fp)
}
