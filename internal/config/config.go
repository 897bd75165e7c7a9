package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the portal's deployment configuration. Secrets (API key, client
// secret, token secret) may be left out of the file and provided through the
// environment instead.
type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Gateway struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Timeout string `yaml:"timeout"`
	} `yaml:"gateway"`
	Identity struct {
		Domain         string `yaml:"domain"`
		ClientID       string `yaml:"client_id"`
		ClientSecret   string `yaml:"client_secret"`
		RedirectURI    string `yaml:"redirect_uri"`
		LogoutRedirect string `yaml:"logout_redirect"`
		Scopes         string `yaml:"scopes"`
		TokenSecret    string `yaml:"token_secret"`
		GroupsClaim    string `yaml:"groups_claim"`
		AdminGroup     string `yaml:"admin_group"`
		UserGroup      string `yaml:"user_group"`
	} `yaml:"identity"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Session struct {
		Cookie string `yaml:"cookie"`
	} `yaml:"session"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Load reads YAML config from path and applies environment overrides for
// secrets.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg.Gateway.APIKey, "GATEWAY_API_KEY")
	applyEnv(&cfg.Identity.ClientSecret, "IDENTITY_CLIENT_SECRET")
	applyEnv(&cfg.Identity.TokenSecret, "IDENTITY_TOKEN_SECRET")
	applyEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	applyEnv(&cfg.Redis.Password, "REDIS_PASSWORD")

	if cfg.Identity.AdminGroup == "" {
		cfg.Identity.AdminGroup = "Admins"
	}
	if cfg.Identity.Scopes == "" {
		cfg.Identity.Scopes = "openid email profile"
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
