// Package server 執行 HTTP 伺服器並在 context 結束時優雅關閉。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Run 在 srv.Addr 上提供服務，直到 ctx 結束或伺服器出錯。
// ctx 結束時最多等待 shutdownTimeout 讓進行中的請求完成。
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed listening on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln, shutdownTimeout, logger)
}

// Serve 與 Run 相同，但使用已建立的 listener
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srvDone := make(chan error, 1)
	go func() {
		logger.Info("web server listening", "address", ln.Addr().String())
		srvDone <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logger.Debug("context done, shutting down web server")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}
	logger.Debug("web server shutdown")

	return nil
}
