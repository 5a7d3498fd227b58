package medichain

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// ErrMissingSecret means no JWT signing secret was configured. There is
// deliberately no fallback secret; the process must refuse to start.
var ErrMissingSecret = errors.New("jwt secret is not configured")

type Config struct {
	Server  ServerConfig `yaml:"server"`
	Mongo   MongoConfig  `yaml:"mongo"`
	JWT     JWTConfig    `yaml:"jwt"`
	Uploads UploadConfig `yaml:"uploads"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// JWTConfig carries two independent lifetimes: signup tokens and login
// session tokens expire on different schedules.
type JWTConfig struct {
	Secret     string `yaml:"secret"`
	SignupTTL  string `yaml:"signup_ttl"`
	SessionTTL string `yaml:"session_ttl"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

// LoadConfig reads the optional YAML file, applies environment
// overrides and defaults, and fails when no signing secret is set.
func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}

	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file %s: %w", filename, err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", filename, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}

	return cfg, nil
}

// TokenIssuer builds the issuer from the configured secret and
// lifetimes.
func (cfg *Config) TokenIssuer() (*TokenIssuer, error) {
	signupTTL, err := time.ParseDuration(cfg.JWT.SignupTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt signup_ttl: %w", err)
	}

	sessionTTL, err := time.ParseDuration(cfg.JWT.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt session_ttl: %w", err)
	}

	return NewTokenIssuer(cfg.JWT.Secret, signupTTL, sessionTTL), nil
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (cfg *Config) SecureCookies() bool {
	return cfg.Server.Env == "production"
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Uploads.Dir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://127.0.0.1:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "medichain"
	}
	if cfg.JWT.SignupTTL == "" {
		cfg.JWT.SignupTTL = "168h"
	}
	if cfg.JWT.SessionTTL == "" {
		cfg.JWT.SessionTTL = "24h"
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "uploads"
	}
}
