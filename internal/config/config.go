package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultJWTSecret = "change-me"
)

// Config holds application level configuration loaded from an optional .env
// file and environment variables.
type Config struct {
	Env         string
	ServerPort  string
	LogLevel    string
	SwaggerHost string
	CORSOrigins []string

	MongoURI      string
	MongoDatabase string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	LoginMaxAttempts int
	LoginWindow      time.Duration
	FeedCacheTTL     time.Duration

	S3 S3Config

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// S3Config describes the S3-compatible bucket used for avatars, covers and
// event images.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
	PathStyle bool
}

// IsProduction reports whether cookies must be Secure and SameSite=None.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load builds Config from .env (if present) and the environment.
func Load() (*Config, error) {
	return load(".env")
}

// LoadWithPath loads configuration using a specific env file.
func LoadWithPath(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:         strings.ToLower(v.GetString("APP_ENV")),
		ServerPort:  v.GetString("SERVER_PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		SwaggerHost: v.GetString("SWAGGER_HOST"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),
		RedisPass: v.GetString("REDIS_PASSWORD"),

		JWTSecret:  v.GetString("JWT_SECRET"),
		SessionTTL: v.GetDuration("SESSION_TTL"),
		BcryptCost: v.GetInt("BCRYPT_COST"),

		LoginMaxAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:      v.GetDuration("LOGIN_WINDOW"),
		FeedCacheTTL:     v.GetDuration("FEED_CACHE_TTL"),

		S3: S3Config{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			PublicURL: v.GetString("S3_PUBLIC_URL"),
			PathStyle: v.GetBool("S3_PATH_STYLE"),
		},

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		AdminName:     v.GetString("ADMIN_NAME"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "FSNeighborConnect")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")
	v.SetDefault("FEED_CACHE_TTL", "2m")

	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "neighborconnect")
	v.SetDefault("S3_PATH_STYLE", true)

	v.SetDefault("ADMIN_NAME", "Site Admin")
}

// Validate checks settings that would make the service insecure or unusable.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test (got %q)", c.Env)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32) {
		return errors.New("JWT_SECRET must be set to at least 32 characters in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31 (got %d)", c.BcryptCost)
	}
	if c.MongoURI == "" || c.MongoDatabase == "" {
		return errors.New("MONGO_URI and MONGO_DATABASE are required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
