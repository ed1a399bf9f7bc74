// Package logging 建立應用程式共用的 slog logger。
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ParseLevel 解析 DEBUG/INFO/WARN/ERROR（不分大小寫）
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// New 建立寫到 w 的 tint logger
func New(w io.Writer, level slog.Leveler, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    noColor,
		TimeFormat: "2006-01-02 15:04:05.000",
	}))
}

// Setup 建立輸出到 stderr 的 logger 並設為預設；非終端機時關閉顏色
func Setup(level slog.Leveler) *slog.Logger {
	logger := New(colorable.NewColorable(os.Stderr), level, !isatty.IsTerminal(os.Stderr.Fd()))
	slog.SetDefault(logger)
	return logger
}
