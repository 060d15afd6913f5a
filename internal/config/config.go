package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Log     LogConfig
	Stats   StatsConfig
	AI      AIConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Session: session,
		Log:     loadLogConfig(),
		Stats:   loadStatsConfig(),
		AI:      ai,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

const (
	defaultPort        = "8000"
	defaultMaxUploadMB = 50
)

// loadServerConfig 解析服务器监听地址与上传大小限制。
func loadServerConfig() (ServerConfig, error) {
	port := getEnvOrDefault("PORT", defaultPort)

	var addr string
	switch {
	case strings.Contains(port, ":"):
		// 允许用户直接传入 ":8000" 或 "127.0.0.1:8000"。
		addr = port
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	default:
		addr = ":" + port
	}

	maxMB, err := parseOptionalIntEnv("MAX_UPLOAD_MB")
	if err != nil {
		return ServerConfig{}, err
	}
	limit := defaultMaxUploadMB
	if maxMB != nil {
		if *maxMB < 1 {
			return ServerConfig{}, fmt.Errorf("invalid MAX_UPLOAD_MB value %d: must be positive", *maxMB)
		}
		limit = *maxMB
	}

	return ServerConfig{Addr: addr, MaxUploadBytes: int64(limit) << 20}, nil
}

// SessionConfig 描述内存会话存储。
type SessionConfig struct {
	// Limit 为同时保留的会话上限，超出时淘汰最早创建的会话。
	Limit int
}

const defaultSessionLimit = 100

func loadSessionConfig() (SessionConfig, error) {
	limit, err := parseOptionalIntEnv("SESSION_LIMIT")
	if err != nil {
		return SessionConfig{}, err
	}
	if limit == nil {
		return SessionConfig{Limit: defaultSessionLimit}, nil
	}
	if *limit < 1 {
		return SessionConfig{Limit: 1}, nil
	}
	return SessionConfig{Limit: *limit}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level logging.Level
	JSON  bool
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level: logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		JSON:  strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json"),
	}
}

// StatsConfig 描述全局使用次数的存储位置；配置了 Redis 时优先使用 Redis。
type StatsConfig struct {
	File     string
	RedisURL string
	RedisKey string
}

func loadStatsConfig() StatsConfig {
	return StatsConfig{
		File:     getEnvOrDefault("STATS_FILE", "data/stats.json"),
		RedisURL: strings.TrimSpace(os.Getenv("STATS_REDIS_URL")),
		RedisKey: getEnvOrDefault("STATS_REDIS_KEY", "chatvibes:total_vibes_checked"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
