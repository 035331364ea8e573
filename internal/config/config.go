package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is built once at startup and handed down explicitly; packages
// below cmd never read the environment themselves.
type Config struct {
	LLM     LLMConfig     `toml:"llm"`
	Agent   AgentConfig   `toml:"agent"`
	Gateway GatewayConfig `toml:"gateway"`
	DB      DBConfig      `toml:"db"`
	Trace   TraceConfig   `toml:"trace"`
}

type LLMConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

type AgentConfig struct {
	SystemPrompt  string `toml:"system_prompt"`
	MaxIterations int    `toml:"max_iterations"`
}

type GatewayConfig struct {
	Addr string `toml:"addr"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

type TraceConfig struct {
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Model: "gpt-4.1",
		},
		Agent: AgentConfig{
			MaxIterations: 25,
		},
		Gateway: GatewayConfig{
			Addr: ":8374",
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
	}

	path := configPath()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func configPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "clifton", "config.toml")
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "clifton", "clifton.db")
}
