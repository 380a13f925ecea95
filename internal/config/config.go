package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SharingService/pkg/psqlbuilder"
)

// DriverMemory хранит бронирования в памяти процесса, без БД
const DriverMemory = "memory"

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig     `toml:"server"`
	Database    DatabaseConfig   `toml:"database"`
	Logs        LogsConfig       `toml:"logs"`
	Metrics     MetricsConfig    `toml:"metrics"`
	UserService ClientConfig     `toml:"user_service"`
	ItemService ClientConfig     `toml:"item_service"`
	Redis       RedisConfig      `toml:"redis"`
	RateLimit   RateLimitConfig  `toml:"rate_limit"`
	Pagination  PaginationConfig `toml:"pagination"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver   string `toml:"driver"` // postgres, sqlite3 или memory
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	SSLMode  string `toml:"sslmode"`
	Path     string `toml:"path"` // файл БД для sqlite3

	MaxOpenConns    int `toml:"max_open_conns"`
	MaxIdleConns    int `toml:"max_idle_conns"`
	ConnMaxLifetime int `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
	TTL      int    `toml:"ttl"` // секунды
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

type PaginationConfig struct {
	DefaultSize int `toml:"default_size"`
	MaxSize     int `toml:"max_size"`
}

// Load читает конфигурацию из TOML файла.
// Переменные из .env (если файл есть) и окружения подставляются в текст конфига вида ${VAR}.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	var cfg Config
	if _, err := toml.Decode(os.ExpandEnv(string(data)), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = psqlbuilder.DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "sharing_service"
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.ItemService.Timeout == 0 {
		c.ItemService.Timeout = 5
	}

	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 300
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}

	if c.Pagination.DefaultSize == 0 {
		c.Pagination.DefaultSize = 10
	}
	if c.Pagination.MaxSize == 0 {
		c.Pagination.MaxSize = 100
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case psqlbuilder.DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("database host and dbname are required for postgres")
		}
	case psqlbuilder.DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite3")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.UserService.URL == "" {
		return errors.New("user_service url is required")
	}
	if c.ItemService.URL == "" {
		return errors.New("item_service url is required")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}
	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		return fmt.Errorf("pagination default_size %d exceeds max_size %d", c.Pagination.DefaultSize, c.Pagination.MaxSize)
	}

	return nil
}

// DSN возвращает строку подключения для драйвера БД
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverMemory:
		return ""
	case psqlbuilder.DriverSQLite:
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}
