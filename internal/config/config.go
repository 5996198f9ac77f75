package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string       `json:"serverAddress"`
	DatabasePath  string       `json:"databasePath"`
	DatabaseURL   string       `json:"databaseUrl"`
	MediaBaseURL  string       `json:"mediaBaseUrl"`
	MediaStorage  MediaStorage `json:"mediaStorage"`
	Admin         Admin        `json:"admin"`
	Push          Push         `json:"push"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// MediaStorage configuration
type MediaStorage struct {
	BasePath          string   `json:"basePath"`
	MaxFileSizeMB     int64    `json:"maxFileSizeMB"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

// Admin configuration for the signed-session login
type Admin struct {
	Password      string `json:"password"`
	PasswordHash  string `json:"passwordHash"`
	SessionSecret string `json:"sessionSecret"`
}

// Push configuration for Web Push delivery
type Push struct {
	VAPIDPublicKey  string `json:"vapidPublicKey"`
	VAPIDPrivateKey string `json:"vapidPrivateKey"`
	SubscriberEmail string `json:"subscriberEmail"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "familyalbum.db",
		MediaBaseURL:  "/media",
		MediaStorage: MediaStorage{
			BasePath:      "./media",
			MaxFileSizeMB: 15,
			AllowedExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif",
			},
		},
		Push: Push{
			SubscriberEmail: "mailto:admin@example.com",
		},
	}
}

// Load loads configuration from .env, a config file, and environment overrides
func Load() (*Config, error) {
	// .env is optional; environment stays authoritative
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if baseURL := os.Getenv("MEDIA_BASE_URL"); baseURL != "" {
		cfg.MediaBaseURL = baseURL
	}
	if basePath := os.Getenv("MEDIA_STORAGE_PATH"); basePath != "" {
		cfg.MediaStorage.BasePath = basePath
	}
	if maxSize := os.Getenv("MEDIA_MAX_FILE_SIZE_MB"); maxSize != "" {
		if mb, err := strconv.ParseInt(maxSize, 10, 64); err == nil && mb > 0 {
			cfg.MediaStorage.MaxFileSizeMB = mb
		}
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Admin.Password = password
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.Admin.PasswordHash = hash
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Admin.SessionSecret = secret
	}
	if pub := os.Getenv("VAPID_PUBLIC_KEY"); pub != "" {
		cfg.Push.VAPIDPublicKey = pub
	}
	if priv := os.Getenv("VAPID_PRIVATE_KEY"); priv != "" {
		cfg.Push.VAPIDPrivateKey = priv
	}
	if email := os.Getenv("PUSH_SUBSCRIBER_EMAIL"); email != "" {
		cfg.Push.SubscriberEmail = email
	}

	// Ensure media storage directory exists
	if err := os.MkdirAll(cfg.MediaStorage.BasePath, 0755); err != nil {
		return nil, err
	}

	// Make base path absolute
	absPath, err := filepath.Abs(cfg.MediaStorage.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.MediaStorage.BasePath = absPath

	return cfg, nil
}
