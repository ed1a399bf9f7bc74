package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Eth        EthConfig
	IPFS       IPFSConfig
	Cloudinary CloudinaryConfig
	Crawler    UpstreamConfig
	Analytics  UpstreamConfig
	Upload     UploadConfig
	Log        LogConfig
}

type ServerConfig struct {
	Address         string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Host         string
	User         string
	Password     string
	Name         string
	Port         int
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleTime  time.Duration `mapstructure:"max_idle_time"`
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// EthConfig 描述上鏈所需的節點與帳戶資訊
type EthConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	PrivateKey      string `mapstructure:"private_key"`
	ChainID         int64  `mapstructure:"chain_id"` // 0 表示向節點查詢
	RegistryAddress string `mapstructure:"registry_address"`
	RegistryABI     string `mapstructure:"registry_abi"`
	Bytecode        string
	GasLimit        uint64 `mapstructure:"gas_limit"`
}

type IPFSConfig struct {
	Host string
	Port int
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

type UpstreamConfig struct {
	URL     string
	Timeout time.Duration
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type LogConfig struct {
	Level string
}

// Addr 回傳 IPFS API 的 host:port
func (c IPFSConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "kai_shield")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_time", 30*time.Second)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "kai-shield")
	v.SetDefault("jwt.audience", "web-client")
	v.SetDefault("jwt.ttl", 4*time.Hour)

	v.SetDefault("eth.rpc_url", "http://localhost:8545")
	v.SetDefault("eth.private_key", "")
	v.SetDefault("eth.chain_id", 0)
	v.SetDefault("eth.registry_address", "")
	v.SetDefault("eth.registry_abi", "")
	v.SetDefault("eth.bytecode", "")
	v.SetDefault("eth.gas_limit", 0)

	v.SetDefault("ipfs.host", "ipfs")
	v.SetDefault("ipfs.port", 5001)

	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")

	// 社群爬蟲是獨立服務，不是 cmd/crawler（:8081 只提供 /detect）；未設定時 /crawl 回 503
	v.SetDefault("crawler.url", "")
	v.SetDefault("crawler.timeout", 2*time.Minute)
	v.SetDefault("analytics.url", "")
	v.SetDefault("analytics.timeout", 3*time.Minute)

	v.SetDefault("upload.max_bytes", 32<<20)
	v.SetDefault("log.level", "INFO")
}

// Load 讀取設定檔並套用 KAI_ 前綴的環境變數。
// path 為空時依序搜尋 ./pkg/config、目前目錄與 XDG 設定目錄；找不到設定檔時使用預設值。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./pkg/config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "kai-shield"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed decoding config: %w", err)
	}

	return &config, nil
}
