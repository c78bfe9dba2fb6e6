package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

// ClientConfig 描述终端客户端的配置。
type ClientConfig struct {
	APIBaseURL      string
	Timeout         time.Duration
	TriggerInterval int
	PromptsFile     string
	Debug           bool
}

// LoadClient 从环境变量加载终端客户端配置。
func LoadClient() (*ClientConfig, error) {
	base := strings.TrimRight(getEnvOrDefault("SLEEP_TRAINER_API", "http://localhost:8080"), "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid SLEEP_TRAINER_API value %q", base)
	}

	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return nil, err
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	interval := timer.BucketSeconds
	if override, err := parseOptionalIntEnv("TRIGGER_INTERVAL_SECONDS"); err != nil {
		return nil, err
	} else if override != nil && *override > 0 {
		interval = *override
	}

	return &ClientConfig{
		APIBaseURL:      base,
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
		TriggerInterval: interval,
		PromptsFile:     getEnvOrDefault("PROMPTS_FILE", ""),
		Debug:           debug,
	}, nil
}
