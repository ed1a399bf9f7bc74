package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

type DMCAHandler struct {
	dmcaService *service.DMCAService
}

func NewDMCAHandler(dmcaService *service.DMCAService) *DMCAHandler {
	return &DMCAHandler{dmcaService: dmcaService}
}

type dmcaInput struct {
	InfringingURL string `json:"infringingUrl" binding:"required"`
	OriginalWork  string `json:"originalWork" binding:"required"`
}

func (h *DMCAHandler) Submit(c *gin.Context) {
	var input dmcaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	req, err := h.dmcaService.Submit(c.Request.Context(), input.InfringingURL, input.OriginalWork)
	if err != nil {
		writeError(c, err, "DMCA submission failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "DMCA requested",
		"id":            req.ID,
		"infringingUrl": req.InfringingURL,
		"originalWork":  req.OriginalWork,
	})
}
