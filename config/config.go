package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr     = ":8080"
	DefaultKeyEnv   = "OPENAI_API_KEY"
	DefaultProvider = "openai"
	envAddr         = "PLAYGROUND_ADDR"
	envBaseURL      = "OPENAI_BASE_URL"
)

// Config is the playground server configuration.
type Config struct {
	ServerAddr string     `json:"server_addr,omitempty"`
	LLM        *LLMConfig `json:"llm,omitempty"`
}

// LLMConfig 生成接口的模型配置；密钥优先取 api_key，其次取 api_key_env 指向的环境变量。
type LLMConfig struct {
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// LoadConfig reads JSON config from disk and applies .env and environment overrides.
// A missing file yields the defaults; a missing API key is not an error here.
func LoadConfig(path string) (Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.ServerAddr = getEnvOrDefault(envAddr, c.ServerAddr)
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultAddr
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = DefaultKeyEnv
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv))
	}
	c.LLM.BaseURL = getEnvOrDefault(envBaseURL, c.LLM.BaseURL)
}

// Validate checks the provider settings.
func (c Config) Validate() error {
	if c.LLM == nil {
		return errors.New("llm config missing")
	}
	switch c.LLM.Provider {
	case "openai", "mock":
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
