package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/service"
)

// AuthHandler 處理與認證相關的請求
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 創建一個新的 AuthHandler 實例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsInput 定義註冊與登入請求的結構
type CredentialsInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 處理用戶註冊
func (h *AuthHandler) Register(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email/Password required"})
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), input.Email, input.Password); err != nil {
		writeError(c, err, "Register failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Register success"})
}

// Login 處理用戶登入
func (h *AuthHandler) Login(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email/Password required"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		writeError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
