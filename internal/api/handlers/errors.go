package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/chain"
	"kai_shield/internal/media"
	"kai_shield/internal/service"
	"kai_shield/internal/upstream"
)

// writeError 將協作者的錯誤轉為 HTTP 回應。
// 500 類錯誤只回傳 fallback 訊息，完整錯誤交給請求日誌。
func writeError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var uerr *upstream.Error
	switch {
	case errors.Is(err, chain.ErrNotConfigured),
		errors.Is(err, media.ErrNotConfigured),
		errors.Is(err, upstream.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &uerr):
		status := http.StatusBadGateway
		if uerr.StatusCode >= 400 && uerr.StatusCode < 500 {
			status = uerr.StatusCode
		}
		c.JSON(status, gin.H{"error": uerr.Error()})
	case errors.Is(err, upstream.ErrResponseTooLarge):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": fallback})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
