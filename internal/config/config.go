package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY,required"`
	AdminToken      string `env:"ADMIN_TOKEN,required"`

	Domain     string `env:"DOMAIN" envDefault:"localhost"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8000"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"qa_logs.db"`

	// LLM settings
	LLMModel    string `env:"LLM_MODEL" envDefault:"claude-haiku-4-5"`
	ProfilePath string `env:"PROFILE_PATH" envDefault:"data/about_me.txt"`

	// Persona
	BotSubject   string `env:"BOT_SUBJECT" envDefault:"the site owner"`
	ContactEmail string `env:"CONTACT_EMAIL" envDefault:"contact@example.com"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// AllowedOrigin is the single origin permitted to call the API from a browser.
func (c *Config) AllowedOrigin() string {
	if c.Domain == "localhost" {
		return "http://localhost"
	}
	return "https://" + c.Domain
}
