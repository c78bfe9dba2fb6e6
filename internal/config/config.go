package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

// 支持的大模型提供方。
const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Session: session}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址与跨域白名单。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider    string
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	PromptsFile string
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	if c.Model == "" {
		return false
	}
	if c.Provider == ProviderArk {
		return c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")
	}
	return c.APIKey != ""
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%s 凭证或模型配置缺失", c.Provider)
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	switch c.Provider {
	case ProviderArk:
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     c.BaseURL,
			Region:      c.Region,
			APIKey:      c.APIKey,
			AccessKey:   c.AccessKey,
			SecretKey:   c.SecretKey,
			Model:       c.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	case ProviderOpenAI:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      c.APIKey,
			BaseURL:     c.BaseURL,
			Model:       c.Model,
			Timeout:     c.Timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", c.Provider)
	}
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI))
	if provider != ProviderOpenAI && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	temperature := 0.8
	if override, err := parseOptionalFloatEnv("LLM_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 120
	if override, err := parseOptionalIntEnv("LLM_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("LLM_MAX_TOKENS must be > 0")
		}
		maxTokens = *override
	}

	timeoutSeconds := 20
	if override, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	cfg := AIConfig{
		Provider:    provider,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		PromptsFile: strings.TrimSpace(os.Getenv("PROMPTS_FILE")),
	}

	if provider == ProviderArk {
		cfg.APIKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
		cfg.AccessKey = strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
		cfg.SecretKey = strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
		cfg.Model = strings.TrimSpace(os.Getenv("ARK_MODEL"))
		cfg.BaseURL = getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
		cfg.Region = getEnvOrDefault("ARK_REGION", "cn-beijing")
		return cfg, nil
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.Model = getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	cfg.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", "")
	return cfg, nil
}

// SessionConfig 描述计时会话的配置。
type SessionConfig struct {
	TTL             time.Duration
	TriggerInterval int
}

func loadSessionConfig() (SessionConfig, error) {
	ttlMinutes := 60
	if override, err := parseOptionalIntEnv("SESSION_TTL_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil && *override > 0 {
		ttlMinutes = *override
	}

	interval := timer.BucketSeconds
	if override, err := parseOptionalIntEnv("TRIGGER_INTERVAL_SECONDS"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SessionConfig{}, fmt.Errorf("TRIGGER_INTERVAL_SECONDS must be > 0")
		}
		interval = *override
	}

	return SessionConfig{
		TTL:             time.Duration(ttlMinutes) * time.Minute,
		TriggerInterval: interval,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
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
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
