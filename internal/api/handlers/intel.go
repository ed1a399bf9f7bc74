package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

// IntelHandler 轉交爬蟲與影片分析請求，回應為上游的 JSON 原文
type IntelHandler struct {
	intelService *service.IntelService
}

func NewIntelHandler(intelService *service.IntelService) *IntelHandler {
	return &IntelHandler{intelService: intelService}
}

type crawlInput struct {
	Keyword string `form:"keyword" binding:"required"`
}

func (h *IntelHandler) Crawl(c *gin.Context) {
	var input crawlInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.intelService.CrawlSocial(c.Request.Context(), c.Param("platform"), input.Keyword)
	if err != nil {
		writeError(c, err, "Crawl failed")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

type analyzeInput struct {
	VideoURL string `form:"video_url" binding:"required"`
}

func (h *IntelHandler) Analyze(c *gin.Context) {
	var input analyzeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.intelService.AnalyzeVideo(c.Request.Context(), input.VideoURL)
	if err != nil {
		writeError(c, err, "Video analysis failed")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}
