package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Persistence backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBlob     = "blob"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Persistence PersistenceConfig
	Synthesizer SynthesizerConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// PersistenceConfig selects where the whitelisted store snapshot is kept
type PersistenceConfig struct {
	Backend       string
	Key           string
	FilePath      string
	DatabaseURL   string
	RedisURL      string
	Blob          BlobConfig
	EncryptionKey string // base64, 32 bytes decoded
	WriteTimeout  time.Duration
}

// BlobConfig holds Azure Blob Storage configuration
type BlobConfig struct {
	AccountName   string
	AccountKey    string
	ContainerName string
}

// SynthesizerConfig controls seeding and the simulated delays
type SynthesizerConfig struct {
	Seed               int64
	TickInterval       time.Duration
	ChatReplyMinDelay  time.Duration
	ChatReplyMaxDelay  time.Duration
	UploadProcessDelay time.Duration
	UploadReadyDelay   time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Persistence defaults
	v.SetDefault("persistence.backend", BackendFile)
	v.SetDefault("persistence.key", "hope-app-store")
	v.SetDefault("persistence.filepath", "./data")
	v.SetDefault("persistence.writetimeout", 5*time.Second)
	v.SetDefault("persistence.blob.containername", "hope-state")

	// Synthesizer defaults
	v.SetDefault("synthesizer.seed", 0)
	v.SetDefault("synthesizer.tickinterval", time.Second)
	v.SetDefault("synthesizer.chatreplymindelay", 1500*time.Millisecond)
	v.SetDefault("synthesizer.chatreplymaxdelay", 2500*time.Millisecond)
	v.SetDefault("synthesizer.uploadprocessdelay", time.Second)
	v.SetDefault("synthesizer.uploadreadydelay", 3*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.allowedorigins", "ALLOWED_ORIGINS")

	// Persistence
	v.BindEnv("persistence.backend", "HOPE_STORE_BACKEND")
	v.BindEnv("persistence.key", "HOPE_STORE_KEY")
	v.BindEnv("persistence.filepath", "HOPE_STORE_PATH")
	v.BindEnv("persistence.databaseurl", "DATABASE_URL")
	v.BindEnv("persistence.redisurl", "REDIS_URL")
	v.BindEnv("persistence.encryptionkey", "HOPE_STORE_ENCRYPTION_KEY")

	// Azure Storage
	v.BindEnv("persistence.blob.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("persistence.blob.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("persistence.blob.containername", "AZURE_STORAGE_CONTAINER")

	// Synthesizer
	v.BindEnv("synthesizer.seed", "HOPE_SEED")
	v.BindEnv("synthesizer.tickinterval", "HOPE_TICK_INTERVAL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Persistence.Key == "" {
		return fmt.Errorf("persistence.key is required")
	}

	switch c.Persistence.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Persistence.FilePath == "" {
			return fmt.Errorf("persistence.filepath is required for the file backend")
		}
	case BackendPostgres:
		if c.Persistence.DatabaseURL == "" {
			return fmt.Errorf("persistence.databaseurl is required for the postgres backend")
		}
	case BackendRedis:
		if c.Persistence.RedisURL == "" {
			return fmt.Errorf("persistence.redisurl is required for the redis backend")
		}
	case BackendBlob:
		b := c.Persistence.Blob
		if b.AccountName == "" || b.AccountKey == "" || b.ContainerName == "" {
			return fmt.Errorf("azure storage credentials are required for the blob backend (account name, key and container)")
		}
	default:
		return fmt.Errorf("unknown persistence backend %q", c.Persistence.Backend)
	}

	if c.Persistence.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Persistence.EncryptionKey)
		if err != nil {
			return fmt.Errorf("persistence.encryptionkey must be base64: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("persistence.encryptionkey must decode to 32 bytes, got %d", len(key))
		}
	}

	if c.Synthesizer.TickInterval <= 0 {
		return fmt.Errorf("synthesizer.tickinterval must be positive")
	}
	if c.Synthesizer.ChatReplyMinDelay < 0 || c.Synthesizer.ChatReplyMaxDelay < c.Synthesizer.ChatReplyMinDelay {
		return fmt.Errorf("synthesizer chat reply delays must satisfy 0 <= min <= max")
	}
	if c.Synthesizer.UploadProcessDelay < 0 || c.Synthesizer.UploadReadyDelay < c.Synthesizer.UploadProcessDelay {
		return fmt.Errorf("synthesizer upload delays must satisfy 0 <= processing <= ready")
	}

	return nil
}
