package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"

	"kai_shield/internal/cli"
)

func main() {
	// 收到 SIGINT/SIGTERM 時取消 context，讓伺服器優雅關閉
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args[1:], colorable.NewColorable(os.Stdout)); err != nil {
		slog.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
