package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	BaseURL   string        `env:"BASE_URL,   default=http://localhost:8080"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Uploads UploadConfig
	Setup   SetupConfig
}

// MongoConfig holds document-store settings. URI is deliberately optional:
// when unset the server still starts and every storage-backed route
// answers 503 instead of the process crashing.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,   default=annotation_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Dir         string `env:"UPLOAD_DIR,    default=./uploads"`
	PathPrefix  string `env:"UPLOAD_PREFIX, default=/uploads"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB, default=512"`
}

// SetupConfig drives the idempotent bootstrap admin created at startup.
// All three fields must be set for the bootstrap to run.
type SetupConfig struct {
	AdminEmail    string `env:"SETUP_ADMIN_EMAIL"`
	AdminUsername string `env:"SETUP_ADMIN_USERNAME"`
	AdminPassword string `env:"SETUP_ADMIN_PASSWORD"`
}

// BootstrapAdmin reports whether startup should ensure the admin account.
func (c *Config) BootstrapAdmin() bool {
	return c.Setup.AdminEmail != "" && c.Setup.AdminUsername != "" && c.Setup.AdminPassword != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
