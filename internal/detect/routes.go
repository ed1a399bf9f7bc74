package detect

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type detectInput struct {
	URL string `json:"url"`
}

// SetupRoutes 註冊爬蟲偵測服務的路由
func SetupRoutes(r *gin.Engine, d *Detector) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Crawler is healthy"})
	})

	r.POST("/detect", func(c *gin.Context) {
		var input detectInput
		if err := c.ShouldBindJSON(&input); err != nil || input.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url"})
			return
		}

		res, err := d.Detect(c.Request.Context(), input.URL)
		if err != nil {
			slog.Error("crawler detect error", "url", input.URL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Crawler error"})
			return
		}

		c.JSON(http.StatusOK, res)
	})
}
