package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// openUpload 讀取 multipart 欄位 "file"，並限制請求大小。
// 失敗時已寫入錯誤回應，呼叫端直接返回即可。
func openUpload(c *gin.Context, maxBytes int64) (multipart.File, *multipart.FileHeader, bool) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return nil, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, nil, false
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload error"})
		return nil, nil, false
	}
	return f, fh, true
}
