package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/api/handlers"
	"kai_shield/internal/middleware"
	"kai_shield/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, maxUploadBytes int64) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	chainHandler := handlers.NewChainHandler(services.Chain, maxUploadBytes)
	intelHandler := handlers.NewIntelHandler(services.Intel)
	fingerprintHandler := handlers.NewFingerprintHandler(services.Fingerprint, maxUploadBytes)
	mediaHandler := handlers.NewMediaHandler(services.Media, maxUploadBytes)
	dmcaHandler := handlers.NewDMCAHandler(services.DMCA)
	eventHandler := handlers.NewEventHandler(services.Events)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "route not found",
		})
	})

	// 基本的健康檢查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "API is healthy",
		})
	})

	// 轉交外部協作者的路由
	r.POST("/blockchain/upload", chainHandler.Upload)
	r.POST("/blockchain/storeRecord", chainHandler.StoreRecord)
	r.GET("/crawl/:platform", intelHandler.Crawl)
	r.POST("/analyze", intelHandler.Analyze)
	r.POST("/deploy_contract", chainHandler.DeployContract)

	// 用戶認證相關
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// 檔案
	r.POST("/upload", fingerprintHandler.Upload)
	r.POST("/upload_to_ipfs", mediaHandler.UploadToIPFS)
	r.POST("/cloudinary", mediaHandler.UploadToCloudinary)

	r.POST("/dmca/submit", dmcaHandler.Submit)
	r.GET("/events/ws", eventHandler.HandleWebSocket)

	// 需要驗證的路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(services.Tokens))
	{
		authorized.GET("/fingerprints/:hash", fingerprintHandler.Get)
		authorized.GET("/records", chainHandler.ListRecords)
	}
}
