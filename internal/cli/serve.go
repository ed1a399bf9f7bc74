package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kai_shield/internal/api"
	"kai_shield/internal/chain"
	"kai_shield/internal/ipfs"
	"kai_shield/internal/media"
	"kai_shield/internal/middleware"
	"kai_shield/internal/models"
	"kai_shield/internal/repository"
	"kai_shield/internal/server"
	"kai_shield/internal/service"
	"kai_shield/internal/upstream"
	"kai_shield/internal/utils"
)

const ipfsTimeout = 2 * time.Minute

// Serve starts the API gateway.
type Serve struct {
	Address string `kong:"help='[host]:port to listen on. Overrides server.address.'"`
}

// Run the serve command.
func (c *Serve) Run(app *App) error {
	cfg := app.Config
	if c.Address != "" {
		cfg.Server.Address = c.Address
	}

	db, err := app.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}

	chainClient, ethClient, err := chain.Dial(app.Ctx, cfg.Eth)
	if err != nil {
		return err
	}
	defer ethClient.Close()

	mediaClient, err := media.New(cfg.Cloudinary)
	if err != nil {
		return err
	}

	tokens, err := utils.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}

	services := service.NewServices(repository.NewRepositories(db), service.Dependencies{
		Chain:    chainClient,
		IPFS:     ipfs.New(cfg.IPFS.Addr(), ipfsTimeout),
		Media:    mediaClient,
		Crawler:  upstream.NewCrawler(cfg.Crawler),
		Analyzer: upstream.NewAnalyzer(cfg.Analytics),
		Tokens:   tokens,
		Logger:   app.Logger,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(app.Logger))
	api.SetupRoutes(r, services, cfg.Upload.MaxBytes)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server.Run(app.Ctx, srv, cfg.Server.ShutdownTimeout, app.Logger)
}
