// Package cli 定義 kai-shield 的命令列介面。
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"kai_shield/internal/logging"
	"kai_shield/internal/storage"
	"kai_shield/pkg/config"
)

// CLI 是 kai-shield 的命令列介面
type CLI struct {
	Serve   Serve   `kong:"cmd,default='1',help='Start the API gateway (default).'"`
	Migrate Migrate `kong:"cmd,help='Create or update the database schema.'"`
	Deploy  Deploy  `kong:"cmd,help='Deploy the registry contract.'"`
	Records Records `kong:"cmd,help='List submitted chain transactions.'"`

	Config   string `kong:"help='Path to the configuration file.',type='path'"`
	LogLevel string `kong:"name='log-level',help='Override the configured logging level (DEBUG, INFO, WARN, ERROR).'"`
}

// App 是各命令共用的執行環境
type App struct {
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer

	// OpenDB 建立資料庫連線，預設連到 PostgreSQL
	OpenDB func(config.DBConfig) (*storage.Database, error)
}

// Option 調整 App，用於測試替換依賴
type Option func(*App)

func WithOpenDB(open func(config.DBConfig) (*storage.Database, error)) Option {
	return func(app *App) {
		app.OpenDB = open
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(app *App) {
		app.Logger = logger
	}
}

// Run 解析 args 並執行對應的命令
func Run(ctx context.Context, args []string, stdout io.Writer, opts ...Option) error {
	var c CLI
	parser, err := kong.New(&c,
		kong.Name("kai-shield"),
		kong.Description("Content protection gateway: fingerprints, IPFS and on-chain records."),
		kong.UsageOnError(),
		kong.Writers(stdout, stdout),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	app := &App{
		Ctx:    ctx,
		Config: cfg,
		Stdout: stdout,
		OpenDB: storage.NewPostgresDB,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.Logger == nil {
		levelName := cfg.Log.Level
		if c.LogLevel != "" {
			levelName = c.LogLevel
		}
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		app.Logger = logging.Setup(level)
	}

	return kctx.Run(app)
}
