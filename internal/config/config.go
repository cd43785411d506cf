package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUpstreamBaseURL 未配置时的卡片 API 地址
const DefaultUpstreamBaseURL = "http://127.0.0.1:8081"

// Config 全局配置结构体（与 config.yaml 对应）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Upstream UpstreamConfig `mapstructure:"upstream"` // 上游卡片 API
	Cache    CacheConfig    `mapstructure:"cache"`    // Redis 缓存
	Database DatabaseConfig `mapstructure:"database"` // 快照归档库
	Display  DisplayConfig  `mapstructure:"display"`  // 展示开关
	Stats    StatsConfig    `mapstructure:"stats"`    // 统计横幅
	Tags     []TagConfig    `mapstructure:"tags"`     // 筛选标签（名称→tagId），有序
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int     `mapstructure:"port"`             // 服务端口
	Mode           string  `mapstructure:"mode"`             // Gin运行模式：debug/release/test
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`   // 单个客户端每秒请求数，0 为不限流
	RateLimitBurst int     `mapstructure:"rate_limit_burst"` // 突发上限
}

// UpstreamConfig 上游卡片 API 配置
type UpstreamConfig struct {
	BaseURL         string `mapstructure:"base_url"`          // API基础地址
	Timeout         int    `mapstructure:"timeout"`           // 请求超时（秒）
	Proxy           string `mapstructure:"proxy"`             // 代理地址
	DefaultPageSize int    `mapstructure:"default_page_size"` // 列表默认每页条数
}

// CacheConfig Redis 缓存配置；Addr 为空时不启用缓存
type CacheConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	ListTTL   time.Duration `mapstructure:"list_ttl"`   // 列表缓存时长
	DetailTTL time.Duration `mapstructure:"detail_ttl"` // 详情缓存时长
}

// DatabaseConfig PostgreSQL 配置；DSN 为空时不归档快照
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// DisplayConfig 展示开关
type DisplayConfig struct {
	ShowHighBias bool `mapstructure:"show_high_bias"` // 是否在卡片上输出 high bias 标记
}

// StatsConfig 统计横幅
type StatsConfig struct {
	HistoricalAccuracy float64 `mapstructure:"historical_accuracy"` // 历史预测准确率（百分比）
}

// TagConfig 单个筛选标签
type TagConfig struct {
	Label string `mapstructure:"label"`
	ID    string `mapstructure:"id"`
}

// DefaultTags 默认标签表
var DefaultTags = []TagConfig{
	{Label: "Politics", ID: "politics"},
	{Label: "Crypto", ID: "21"},
	{Label: "Finance", ID: "120"},
	{Label: "Geopolitics", ID: "geopolitics"},
	{Label: "Earnings", ID: "earnings"},
	{Label: "Tech", ID: "1401"},
	{Label: "Culture", ID: "culture"},
	{Label: "World", ID: "world"},
	{Label: "Economy", ID: "economy"},
	{Label: "Climate & Science", ID: "climate-science"},
	{Label: "Elections", ID: "elections"},
	{Label: "Mentions", ID: "mentions"},
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(filepath.Join("config", "config.yaml"))
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时只使用默认值与环境变量
func LoadConfigFrom(path string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	v := viper.New()
	setDefaults(v)

	// 2. 读取 config.yaml
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = append([]TagConfig(nil), DefaultTags...)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.rate_limit_rps", 0.0)
	v.SetDefault("server.rate_limit_burst", 0)
	v.SetDefault("upstream.base_url", DefaultUpstreamBaseURL)
	v.SetDefault("upstream.timeout", 10)
	v.SetDefault("upstream.default_page_size", 20)
	v.SetDefault("cache.list_ttl", 30*time.Second)
	v.SetDefault("cache.detail_ttl", 60*time.Second)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("display.show_high_bias", false)
	v.SetDefault("stats.historical_accuracy", 94.2)
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("CARD_API_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("CARD_API_PROXY"); v != "" {
		cfg.Upstream.Proxy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}
