// Package config 加载 scentkit 的 YAML 配置。
//
// 配置缺省的字段使用默认值，命令行参数在加载之后覆盖文件中的值。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/logging"
	"github.com/rushteam/scentkit/pkg/dsl"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Server  ServerConfig    `yaml:"server"`
	Storage StorageConfig   `yaml:"storage"`
	Index   IndexConfig     `yaml:"index"`
	Rank    core.RankConfig `yaml:"rank"`
	Quiz    QuizConfig      `yaml:"quiz"`
	Log     logging.Config  `yaml:"log"`
}

type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	SignalTimeout time.Duration `yaml:"signal_timeout"` // 单路推荐信号读取存储的超时
}

// StorageConfig 描述存储后端。目录始终来自 sqlite；
// backend 为 redis 时，问卷偏好与收藏改存 Redis。
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	SQLiteDSN string `yaml:"sqlite_dsn"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type IndexConfig struct {
	Path      string  `yaml:"path"` // CSR 相似度矩阵（JSON，可 gzip）
	Threshold float64 `yaml:"threshold"`
	CacheSize int     `yaml:"cache_size"`
}

type QuizConfig struct {
	MinRating    float64 `yaml:"min_rating"`
	FallbackSize int     `yaml:"fallback_size"`
	VibeTable    string  `yaml:"vibe_table"`  // 可选：vibe -> accords 映射文件
	FilterExpr   string  `yaml:"filter_expr"` // 可选：CEL 表达式，为 true 的物品保留
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  10 * time.Second,
			SignalTimeout: 2 * time.Second,
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			SQLiteDSN: "file:scentkit.db?cache=shared",
			RedisAddr: "localhost:6379",
			KeyPrefix: "scentkit:",
		},
		Index: IndexConfig{
			Path:      "similarity_matrix.json.gz",
			Threshold: 0.1,
			CacheSize: 1024,
		},
		Rank: core.DefaultRankConfig(),
		Quiz: QuizConfig{
			MinRating:    core.DefaultMinRating,
			FallbackSize: 5,
		},
		Log: logging.Config{Level: "info", Format: "json"},
	}
}

// Load 读取 YAML 配置文件，未出现的字段保留默认值。path 为空时返回默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.Rank = cfg.Rank.WithDefaults()
	return cfg, nil
}

// Validate 检查配置是否可用。
func (c *Config) Validate() error {
	var errs []string
	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, "storage.redis_addr is required for redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.backend %q must be sqlite or redis", c.Storage.Backend))
	}
	if c.Storage.SQLiteDSN == "" {
		errs = append(errs, "storage.sqlite_dsn is required")
	}
	if c.Index.Threshold < 0 {
		errs = append(errs, "index.threshold must be >= 0")
	}
	if c.Index.CacheSize <= 0 {
		errs = append(errs, "index.cache_size must be > 0")
	}
	if c.Rank.DefaultPerPage > c.Rank.MaxPerPage {
		errs = append(errs, "rank.default_per_page must not exceed rank.max_per_page")
	}
	if c.Quiz.MinRating < 0 || c.Quiz.MinRating > 5 {
		errs = append(errs, "quiz.min_rating must be within [0, 5]")
	}
	if c.Quiz.FilterExpr != "" {
		if _, err := dsl.Compile(c.Quiz.FilterExpr); err != nil {
			errs = append(errs, fmt.Sprintf("quiz.filter_expr: %v", err))
		}
	}
	if len(errs) > 0 {
		return core.NewDomainError("config", core.ErrorCodeInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}
