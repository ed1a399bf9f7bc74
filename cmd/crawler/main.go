// Command crawler 執行侵權偵測爬蟲服務。
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"kai_shield/internal/detect"
	"kai_shield/internal/logging"
	"kai_shield/internal/middleware"
	"kai_shield/internal/server"
)

type options struct {
	Address         string        `kong:"default=':8081',env='KAI_CRAWLER_ADDRESS',help='[host]:port to listen on.'"`
	FetchTimeout    time.Duration `kong:"default='30s',help='Timeout for fetching a page.'"`
	ShutdownTimeout time.Duration `kong:"default='10s',help='Time allowed for in-flight requests on shutdown.'"`
	LogLevel        string        `kong:"name='log-level',default='INFO',help='Logging level (DEBUG, INFO, WARN, ERROR).'"`
}

func main() {
	var opts options
	kong.Parse(&opts,
		kong.Name("kai-crawler"),
		kong.Description("Fetches pages and scores them against protected works."),
	)

	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	logger := logging.Setup(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	detect.SetupRoutes(r, detect.New(opts.FetchTimeout, detect.RandomScorer))

	srv := &http.Server{
		Addr:              opts.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.Run(ctx, srv, opts.ShutdownTimeout, logger); err != nil {
		logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
