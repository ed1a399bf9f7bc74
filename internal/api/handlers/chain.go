package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

// ChainHandler 處理上鏈相關的請求
type ChainHandler struct {
	chainService   *service.ChainService
	maxUploadBytes int64
}

func NewChainHandler(chainService *service.ChainService, maxUploadBytes int64) *ChainHandler {
	return &ChainHandler{chainService: chainService, maxUploadBytes: maxUploadBytes}
}

// Upload 將上傳檔案的內容寫入交易 data
func (h *ChainHandler) Upload(c *gin.Context) {
	f, _, ok := openUpload(c, h.maxUploadBytes)
	if !ok {
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		writeError(c, err, "Upload error")
		return
	}

	txHash, err := h.chainService.Upload(c.Request.Context(), content)
	if err != nil {
		writeError(c, err, "Blockchain upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tx_hash": txHash})
}

type storeRecordInput struct {
	Fingerprint string `form:"fingerprint" binding:"required"`
	IPFSHash    string `form:"ipfs_hash" binding:"required"`
}

// StoreRecord 將指紋與 IPFS hash 寫入登記合約
func (h *ChainHandler) StoreRecord(c *gin.Context) {
	var input storeRecordInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txHash, err := h.chainService.StoreRecord(c.Request.Context(), input.Fingerprint, input.IPFSHash)
	if err != nil {
		writeError(c, err, "Store record failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tx_hash": txHash})
}

// DeployContract 部署登記合約
func (h *ChainHandler) DeployContract(c *gin.Context) {
	address, err := h.chainService.DeployContract(c.Request.Context())
	if err != nil {
		writeError(c, err, "Contract deployment failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract_address": address})
}

type listRecordsInput struct {
	Fingerprint string `form:"fingerprint"`
	Limit       int    `form:"limit,default=50" binding:"min=0,max=500"`
}

// ListRecords 列出已送出的交易
func (h *ChainHandler) ListRecords(c *gin.Context) {
	var input listRecordsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.chainService.ListRecords(c.Request.Context(), input.Fingerprint, input.Limit)
	if err != nil {
		writeError(c, err, "無法查詢交易紀錄")
		return
	}

	c.JSON(http.StatusOK, records)
}
